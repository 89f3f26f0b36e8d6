package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "nivel %q", in)
	}
}

func TestLogger_ServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Env: "production", Level: "info", Service: "almacen-api"}, &buf)

	l.Debug().Msg("descartado")
	assert.Zero(t, buf.Len())

	comp := l.Component("ingest")
	comp.Info().Str("file", "remito.pdf").Msg("procesado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "almacen-api", entry["service"])
	assert.Equal(t, "ingest", entry["component"])
	assert.Equal(t, "remito.pdf", entry["file"])
	assert.Equal(t, "procesado", entry["message"])
}
