package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/platinummonkey/courserev/pkg/contextkeys"
	"github.com/sirupsen/logrus"
)

// NewLogger creates a logrus logger writing to out. Format is "json" or
// "text"; anything else falls back to text.
func NewLogger(level, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stdout
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// WithLogger stores a request-scoped entry in ctx
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return contextkeys.WithLogger(ctx, entry)
}

// LoggerFromContext returns the request-scoped entry, or an entry on the
// standard logger when none was stored
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(contextkeys.LoggerKey).(*logrus.Entry); ok && entry != nil {
		return entry
	}

	entry := logrus.NewEntry(logrus.StandardLogger())
	if requestID := contextkeys.GetRequestID(ctx); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if userID, ok := contextkeys.GetUserID(ctx); ok {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}
