package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// LogPanic logs a recovered panic value with its stack trace.
//
// Call it with the result of recover() from a deferred function:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        observability.LogPanic(logger, "api server", r)
//	    }
//	}()
func LogPanic(logger logrus.FieldLogger, where string, r any) {
	logger.WithFields(logrus.Fields{
		"panic":   fmt.Sprint(r),
		"stack":   string(debug.Stack()),
		"context": where,
	}).Error("PANIC recovered")
}

// PanicError converts a recovered value into an error, or nil when r is nil
func PanicError(r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
