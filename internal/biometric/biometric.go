package biometric

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
)

var (
	_ model.Biometric = (*Command)(nil)
	_ model.Biometric = Unavailable{}
)

// Command evaluates biometrics by running a platform helper. Exit status 0 means the user
// was recognized, 1 means they were not; any other status is an error.
type Command struct {
	path   string
	args   []string
	logger *logger.Logger
}

func NewCommand(path string, args []string, logger *logger.Logger) *Command {
	return &Command{
		path:   path,
		args:   args,
		logger: logger,
	}
}

func (c *Command) Evaluate(ctx context.Context) (model.BiometricResult, error) {
	bin, err := exec.LookPath(c.path)
	if err != nil {
		c.logger.Warn("Biometric: helper not found", "command", c.path, "error", err)
		return model.BiometricUnavailable, nil
	}

	err = exec.CommandContext(ctx, bin, c.args...).Run()
	if err == nil {
		return model.BiometricSuccess, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return model.BiometricFailure, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.BiometricFailure, fmt.Errorf("biometric helper interrupted: %w", ctxErr)
	}
	return model.BiometricFailure, fmt.Errorf("biometric helper failed: %w", err)
}

// Unavailable reports that the device has no biometric capability.
type Unavailable struct{}

func (Unavailable) Evaluate(context.Context) (model.BiometricResult, error) {
	return model.BiometricUnavailable, nil
}
