package goql

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variable that overrides `Config.URL`.
const EnvDatabaseURL = `DATABASE_URL`

/*
Connection settings, usually read from a YAML file:

	url: postgres://localhost/app?sslmode=disable
	log_level: debug
	log_pretty: true
*/
type Config struct {
	// Database URL. See `Establish` for the accepted forms.
	URL string `yaml:"url"`
	// Sets the logging level (debug, info, warn, error). Empty disables logging.
	LogLevel string `yaml:"log_level"`
	// Enables human-readable console output.
	LogPretty bool `yaml:"log_pretty"`
}

// Reads a YAML config file. `DATABASE_URL`, when set, wins over the file.
func LoadConfig(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ErrInvalidInput.while(`reading config`).because(errors.WithStack(err))
	}
	return ParseConfig(src)
}

// Same as `LoadConfig` but takes the YAML source directly.
func ParseConfig(src []byte) (Config, error) {
	var conf Config
	err := yaml.Unmarshal(src, &conf)
	if err != nil {
		return Config{}, ErrInvalidInput.while(`parsing config`).because(errors.WithStack(err))
	}
	if url := os.Getenv(EnvDatabaseURL); url != `` {
		conf.URL = url
	}
	return conf, nil
}

// Establishes a connection with a logger built from the config.
func (self Config) Establish(ctx context.Context) (*Conn, error) {
	return Establish(ctx, self.URL, WithLogger(self.Logger(os.Stderr)))
}

// Logger described by the config. Nop when `LogLevel` is empty.
func (self Config) Logger(out io.Writer) zerolog.Logger {
	if self.LogLevel == `` {
		return zerolog.Nop()
	}
	return NewLogger(self.LogLevel, self.LogPretty, out)
}

// Creates a zerolog logger tagged with this package as the component.
func NewLogger(level string, pretty bool, out io.Writer) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	if out == nil {
		out = os.Stderr
	}
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "goql").
		Logger()
}

func logElapsed(event *zerolog.Event, start time.Time) *zerolog.Event {
	return event.Dur("elapsed", time.Since(start))
}
