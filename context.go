/*
We pass context through context.Context between the host runtime and the
extensions. Each value that we want to support in the context has two
functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T)
*/
package quorum

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the quorum module

const (
	contextKeyLogger contextKey = iota
)

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

// WithLogger sets the logger for this context
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
