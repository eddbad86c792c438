package logger

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"strings"
)

const (
	AgentNameField = "agent"
	ModelField     = "model"
	ActorIDField   = "actor"
	RequestIDField = "request_id"
	DurationField  = "duration_ms"
	WorkersField   = "workers"
)

// ParseLevel accepts both zerolog level names and the DEBUG/INFO/WARNING/
// ERROR/CRITICAL names used in config files.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARNING":
		return zerolog.WarnLevel, nil
	case "CRITICAL":
		return zerolog.FatalLevel, nil
	case "":
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", level, err)
	}
	return l, nil
}

func NewGlobal(level string, pretty bool) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}
