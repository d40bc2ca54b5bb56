package testutil

import (
	"io"

	"github.com/dtroode/spendy/internal/logger"
)

// MakeNoopLogger returns a logger discarding every record.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
