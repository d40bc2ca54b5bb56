package main

import (
	"io"

	"github.com/dtroode/spendy/internal/logger"
)

// resources releases opened connections in reverse order of acquisition.
type resources struct {
	closers []io.Closer
	logger  *logger.Logger
}

func newResources(logger *logger.Logger) *resources {
	return &resources{logger: logger}
}

func (r *resources) add(c io.Closer) {
	if c != nil {
		r.closers = append(r.closers, c)
	}
}

// closeAll closes every resource once. Later calls are no-ops.
func (r *resources) closeAll() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			r.logger.Warn("failed to release resource", "error", err)
		}
	}
	r.closers = nil
}
