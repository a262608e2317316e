package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger writes to STDOUT, or to a dated file next to logFilePath when one
// is configured.
func Logger(logFilePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(log.DEBUG),
		lecho.WithTimestamp(),
	)
	if logFilePath == "" {
		return logger
	}
	file, err := OpenLogFile(logFilePath, time.Now())
	if err != nil {
		logger.Errorf("failed to open log file, logging to STDOUT: %v", err)
		return logger
	}
	logger.SetOutput(file)
	return logger
}

// OpenLogFile appends to path with the day inserted before its extension,
// e.g. x402hub.log becomes x402hub-2026-03-01.log.
func OpenLogFile(path string, now time.Time) (*os.File, error) {
	day := now.Format("-2006-01-02")
	if extension := filepath.Ext(path); extension != "" {
		path = strings.TrimSuffix(path, extension) + day + extension
	} else {
		path = path + day + ".log"
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
}
