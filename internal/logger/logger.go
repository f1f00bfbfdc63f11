package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	FieldComponent = "component"
	FieldToken     = "token"
	FieldKind      = "kind"
)

// Config controls the process logger.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
}

var (
	once          sync.Once
	defaultLogger zerolog.Logger
)

// ConfigFromEnv reads DEBUG, LOG_LEVEL and LOG_FORMAT.
// LOG_LEVEL wins over DEBUG when both are set.
func ConfigFromEnv() Config {
	cfg := Config{
		Level:  envVar("LOG_LEVEL"),
		Format: envVar("LOG_FORMAT"),
	}
	if cfg.Level == "" && envVarBool("DEBUG") {
		cfg.Level = "debug"
	}
	cfg.ApplyDefaults()
	return cfg
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.ToLower(cfg.Format) == FormatJSON {
		zl = zerolog.New(cfg.Output)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: cfg.Output, NoColor: envVarBool("LOG_NO_COLOR")})
	}

	return zl.Level(level).With().Timestamp().Logger()
}

// Default returns the process logger, built from the environment on first use.
func Default() zerolog.Logger {
	once.Do(func() {
		defaultLogger = New(ConfigFromEnv())
	})
	return defaultLogger
}

// Component returns the process logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Default().With().Str(FieldComponent, name).Logger()
}

func envVar(name string) string {
	return os.Getenv(name)
}

func envVarBool(name string) bool {
	return envVar(name) == "true"
}
