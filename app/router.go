package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
type Router struct {
	routes map[string]treasury.Handler
}

var _ treasury.Registry = (*Router)(nil)
var _ treasury.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]treasury.Handler),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h treasury.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no handler is
// found, ErrUnknownMsg is returned.
func (r *Router) handler(tx treasury.Tx) (treasury.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownMsg, "path %q", msg.Path())
	}
	return h, nil
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx context.Context, db treasury.KVStore, tx treasury.Tx) error {
	h, err := r.handler(tx)
	if err != nil {
		return err
	}
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

// QueryRouter allows us to register many query handlers to different paths
// and then direct each query to the proper handler.
type QueryRouter struct {
	routes map[string]treasury.QueryHandler
}

var _ treasury.QueryRouter = (*QueryRouter)(nil)

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() *QueryRouter {
	return &QueryRouter{
		routes: make(map[string]treasury.QueryHandler, 8),
	}
}

// Register adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *QueryRouter) Register(path string, h treasury.QueryHandler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, returns nil.
func (r *QueryRouter) Handler(path string) treasury.QueryHandler {
	return r.routes[path]
}
