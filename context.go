package treasury

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the treasury module

const (
	contextKeyLogger contextKey = iota
	contextKeyHeight
	contextKeyChainID
)

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

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

// WithHeight sets the block height for the context.
// It panics if the height is already set.
func WithHeight(ctx context.Context, height int64) context.Context {
	if _, ok := GetHeight(ctx); ok {
		panic(fmt.Sprintf("height already set: %d", height))
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height
// If it was not set, return (0, false)
func GetHeight(ctx context.Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id for the context.
// It panics if the chain id is already set.
func WithChainID(ctx context.Context, chainID string) context.Context {
	if _, ok := GetChainID(ctx); ok {
		panic("chain id already set")
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id.
func GetChainID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(contextKeyChainID).(string)
	return val, ok
}
