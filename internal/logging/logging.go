package logging

import (
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
)

// ParseLevel maps a LOG_LEVEL value to a gommon level.
func ParseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return log.INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// Configure sets the level and header of the process-wide logger.
func Configure(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetHeader("${time_rfc3339} ${level}")
	return nil
}
