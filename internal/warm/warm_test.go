package warm

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidSchedule(t *testing.T) {
	_, err := New("not a cron spec", func(context.Context) error { return nil }, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestStartStop(t *testing.T) {
	w, err := New("@hourly", func(context.Context) error { return nil }, zerolog.Nop())
	require.NoError(t, err)

	w.Start()
	w.Stop()
}
