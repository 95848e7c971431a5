package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	Setup("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Setup("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSplitterRoutesByLevel(t *testing.T) {
	var out, errs bytes.Buffer
	origOut, origErr := standardOut, errorOut
	standardOut, errorOut = &out, &errs
	defer func() { standardOut, errorOut = origOut, origErr }()

	Setup("debug")
	log.Info().Msg("hello")
	log.Error().Msg("boom")

	assert.Contains(t, out.String(), "hello")
	assert.NotContains(t, out.String(), "boom")
	assert.Contains(t, errs.String(), "boom")
}
