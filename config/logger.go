// ABOUTME: Structured logger construction
// ABOUTME: Builds a charmbracelet/log logger at the configured level
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLogLevel accepts debug, info, warn or error.
func ParseLogLevel(level string) (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("PROSPECT_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// NewLogger writes timestamped structured logs to w.
func NewLogger(w io.Writer, level string) *log.Logger {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          AppName,
	})
}
