package container

import (
	"fmt"
	"os"

	"github.com/samber/do"
	"go.uber.org/zap"
)

// NewLogger builds the process logger. format is "json" for production output, anything else
// gives human readable console output.
func NewLogger(format string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if format == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

// LoggerPackage provides the worker logger, tagged with worker id and pid.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)
		worker := do.MustInvoke[Worker](i)

		logger, err := NewLogger(opts.LogFormat)
		if err != nil {
			return nil, err
		}

		return logger.With(zap.Int("worker", worker.ID), zap.Int("pid", os.Getpid())), nil
	})
}
