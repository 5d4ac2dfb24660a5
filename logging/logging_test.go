package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fwojciec/breeze/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"verbose":  zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.New(&buf, "info", false)
	log.Debug().Msg("hidden")
	log.Info().Str("city", "Beijing").Msg("lookup")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "Beijing", line["city"])
	assert.Equal(t, "lookup", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.New(&buf, "debug", true)
	log.Debug().Msg("dispatching")
	assert.Contains(t, buf.String(), "dispatching")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
