package options

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const (
	LOG_ERROR = iota
	LOG_WARN
	LOG_INFO
	LOG_DEBUG
	LOG_TRACE
)

var level_names = []string{"error", "warn", "info", "debug", "trace"}

func ParseLevel(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	for j, n := range level_names {
		if n == s {
			return j, nil
		}
	}
	return LOG_INFO, fmt.Errorf("unknown log level \"%s\"", s)
}

func LevelName(l int) string {
	if l >= 0 && l < len(level_names) {
		return level_names[l]
	}
	return "unknown"
}

// Logf logs when the configured level admits val.
func Logf(val int, ofmt string, params ...interface{}) {
	if Config.Level >= val {
		log.Printf(ofmt, params...)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging sets the standard logger's format and, when logfile is
// given, tees output to it.
func SetupLogging(logfile string) (io.Closer, error) {
	log.SetPrefix("[elrsplay] ")
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stderr)
	if logfile == "" {
		return nopCloser{}, nil
	}
	fh, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, fh))
	return fh, nil
}
