package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultShutdownTimeout bounds a graceful shutdown
const DefaultShutdownTimeout = 30 * time.Second

// ShutdownFunc releases a resource during shutdown
type ShutdownFunc func(context.Context) error

// Shutdown stops the servers, then runs fns in order, all within timeout.
// Every step runs even if an earlier one fails; the errors are joined.
func Shutdown(logger logrus.FieldLogger, timeout time.Duration, servers []*http.Server, fns ...ShutdownFunc) error {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		logger.WithField("addr", srv.Addr).Info("Shutting down HTTP server")
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).WithField("addr", srv.Addr).Error("HTTP server shutdown error")
			errs = append(errs, fmt.Errorf("server %s: %w", srv.Addr, err))
		}
	}

	for i, fn := range fns {
		if err := fn(ctx); err != nil {
			logger.WithError(err).Errorf("Shutdown function %d failed", i)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Info("Graceful shutdown complete")
	return nil
}
