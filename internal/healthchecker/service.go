package healthchecker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"go.uber.org/zap"
)

var ErrUnhealthy = errors.New("pre-flight check failed")

// Target is anything that can tell whether it is ready to receive records.
type Target interface {
	Name() string
	Check(ctx context.Context) error
}

type Healthchecker struct {
	Timeout time.Duration
}

func NewService() *Healthchecker {
	return &Healthchecker{
		Timeout: time.Duration(config.Conf.HealthCheckerTimeout) * time.Second,
	}
}

// Check runs every target's check with its own timeout and reports all the
// failing ones together.
func (h *Healthchecker) Check(ctx context.Context, targets ...Target) error {
	var errs []error

	for _, target := range targets {
		err := h.check(ctx, target)
		if err != nil {
			logging.Logger.Error("service is not healthy",
				zap.String("service", target.Name()),
				zap.String("error", err.Error()),
			)

			errs = append(errs, fmt.Errorf("%s: %w", target.Name(), err))

			continue
		}

		logging.Logger.Info(target.Name() + " service healthy")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrUnhealthy, errors.Join(errs...))
	}

	return nil
}

func (h *Healthchecker) check(ctx context.Context, target Target) error {
	if h.Timeout <= 0 {
		return target.Check(ctx)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	return target.Check(ctxWithTimeout)
}
