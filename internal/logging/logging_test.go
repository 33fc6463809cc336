package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: FormatJSON}, &buf)
	l = ComponentLogger(l, "engine")

	l.Debug().Msg("hidden")
	l.Info().Str("ship", "Aurora").Msg("evaluated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "Aurora", entry["ship"])
	assert.Equal(t, "evaluated", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Format: FormatConsole}, &buf)
	l.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "DBG")
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))

	var buf bytes.Buffer
	l := NewLogger(Config{Format: FormatJSON}, &buf)
	ctx = l.WithContext(ctx)
	FromContext(ctx).Info().Ctx(ctx).Msg("traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, id, entry["trace_id"])
}

func TestFromContext_Disabled(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestNewLoggerWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuelghg.log")
	r := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
	require.True(t, r.UsingFile)
	assert.Equal(t, path, r.FilePath)
	r.Logger.Info().Msg("to file")
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	bad := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.False(t, bad.UsingFile)
	assert.True(t, bad.FallbackUsed)
	assert.NotEmpty(t, bad.FallbackReason)

	none := NewLoggerWithPath(Config{Output: OutputFile})
	assert.True(t, none.FallbackUsed)

	var buf bytes.Buffer
	PrintLogPathMessage(&buf, path)
	PrintFallbackWarning(&buf, "denied")
	assert.Contains(t, buf.String(), path)
	assert.Contains(t, buf.String(), "denied")
}
