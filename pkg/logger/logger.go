package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const timeFormat = "2006-01-02 15:04:05"

var (
	standardOut io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
	errorOut    io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
)

// splitter implements zerolog.LevelWriter
type splitter struct{}

// Write should not be called
func (splitter) Write(p []byte) (n int, err error) {
	return standardOut.Write(p)
}

// WriteLevel write to the appropriate output
func (splitter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if level <= zerolog.WarnLevel {
		return standardOut.Write(p)
	}
	return errorOut.Write(p)
}

// Setup installs the global logger. Unknown levels fall back to info.
func Setup(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(splitter{}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
