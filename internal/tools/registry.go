// Package tools holds the tool registry and the USAspending tool set
// exposed to MCP clients.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// Registration and dispatch failures callers are expected to match.
var (
	ErrDuplicateTool = errors.New("tools: duplicate tool name")
	ErrUnknownTool   = errors.New("tools: unknown tool")
)

// ValidationError reports arguments that failed a tool's input schema or
// its cross-field rules. Fields holds one "field: message" entry per
// offending field.
type ValidationError struct {
	Tool   string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tools: invalid arguments for %s: %s", e.Tool, strings.Join(e.Fields, "; "))
}

// Handler executes a tool invocation. args is the raw argument object,
// already validated against the tool's input schema.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Descriptor declares a callable tool. Descriptors are built at process
// start and never change afterwards.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Handler     Handler        `json:"-"`

	schema *gojsonschema.Schema
}

// Registry holds the registered tools. Registration happens once at
// startup; Dispatch is read-only and safe for concurrent use.
type Registry struct {
	tools map[string]*Descriptor
	order []string
	log   zerolog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{tools: make(map[string]*Descriptor), log: log}
}

// Register adds a tool, compiling its input schema. It fails with
// ErrDuplicateTool if the name is already taken.
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return errors.New("tools: descriptor has no name")
	}
	if d.Handler == nil {
		return fmt.Errorf("tools: descriptor %q has no handler", d.Name)
	}
	if _, ok := r.tools[d.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, d.Name)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(d.InputSchema))
	if err != nil {
		return fmt.Errorf("tools: compile schema for %q: %w", d.Name, err)
	}
	d.schema = schema
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Descriptors lists the registered tools in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.tools[name])
	}
	return out
}

// Dispatch validates args against the named tool's schema and invokes
// its handler. It fails with ErrUnknownTool for unregistered names and
// *ValidationError for arguments that do not satisfy the schema.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	d, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := d.schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return nil, &ValidationError{Tool: name, Fields: []string{"arguments: " + err.Error()}}
	}
	if !result.Valid() {
		fields := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			fields = append(fields, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}
		return nil, &ValidationError{Tool: name, Fields: fields}
	}

	id := uuid.NewString()
	log := r.log.With().Str("tool", name).Str("invocation_id", id).Logger()
	log.Debug().Msg("dispatching tool")

	out, err := d.Handler(ctx, args)
	if err != nil {
		log.Warn().Err(err).Msg("tool failed")
		return nil, err
	}
	log.Debug().Msg("tool completed")
	return out, nil
}

// invalidArgs wraps a request-model validation failure in the error type
// the dispatch path reports for schema failures.
func invalidArgs(tool string, err error) error {
	return &ValidationError{Tool: tool, Fields: []string{err.Error()}}
}
