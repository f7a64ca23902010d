package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.Info("day evaluated",
		String("date", "2024-03-01"),
		Float("stability", 0.0042),
		Int("bars", 240),
		Bool("stop_loss", true),
		Duration("duration_ms", 1500*time.Millisecond),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "day evaluated", got["message"])
	assert.Equal(t, "2024-03-01", got["date"])
	assert.InDelta(t, 0.0042, got["stability"], 1e-12)
	assert.EqualValues(t, 240, got["bars"])
	assert.Equal(t, true, got["stop_loss"])
	assert.EqualValues(t, 1500, got["duration_ms"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)
	l.Info("dropped")
	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Error("kept", Error(errors.New("boom")))
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestLoggerWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).With(String("symbol", "IF"))
	l.Info("hello")
	assert.Contains(t, buf.String(), `"symbol":"IF"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}
