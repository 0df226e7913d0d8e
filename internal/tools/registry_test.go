package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoDescriptor(name string) *Descriptor {
	return &Descriptor{
		Name:        name,
		Description: "echoes its arguments",
		InputSchema: schemaObject(map[string]any{
			"keyword": schemaString("search term"),
			"limit":   schemaInteger("result cap"),
		}, "keyword"),
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			var m map[string]any
			if err := json.Unmarshal(args, &m); err != nil {
				return nil, err
			}
			return m, nil
		},
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	require.NoError(t, r.Register(echoDescriptor("echo")))

	err := r.Register(echoDescriptor("echo"))
	require.ErrorIs(t, err, ErrDuplicateTool)
}

func TestRegisterRejectsIncompleteDescriptors(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	assert.Error(t, r.Register(&Descriptor{}))
	assert.Error(t, r.Register(&Descriptor{Name: "no_handler", InputSchema: schemaObject(nil)}))
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	_, err := r.Dispatch(context.Background(), "nonexistent", nil)
	require.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestDispatchValidArgs(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	require.NoError(t, r.Register(echoDescriptor("echo")))

	out, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"keyword":"solar","limit":5}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"keyword": "solar", "limit": 5.0}, out)
}

func TestDispatchMissingRequiredField(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	require.NoError(t, r.Register(echoDescriptor("echo")))

	_, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"limit":5}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "echo", verr.Tool)
	require.NotEmpty(t, verr.Fields)
	assert.Contains(t, verr.Error(), "keyword")
}

func TestDispatchWrongType(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	require.NoError(t, r.Register(echoDescriptor("echo")))

	_, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"keyword":"x","limit":"five"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "limit")
}

func TestDispatchNilArgsTreatedAsEmptyObject(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	require.NoError(t, r.Register(&Descriptor{
		Name:        "no_args",
		Description: "needs nothing",
		InputSchema: schemaObject(map[string]any{}),
		Handler: func(context.Context, json.RawMessage) (any, error) {
			return "ok", nil
		},
	}))

	out, err := r.Dispatch(context.Background(), "no_args", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestDescriptorsOrder(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(echoDescriptor(name)))
	}
	ds := r.Descriptors()
	require.Len(t, ds, 3)
	assert.Equal(t, "c", ds[0].Name)
	assert.Equal(t, "a", ds[1].Name)
	assert.Equal(t, "b", ds[2].Name)
}
