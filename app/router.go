package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/\-]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]flow.Handler
}

var _ flow.Registry = (*Router)(nil)
var _ flow.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]flow.Handler, 10),
	}
}

// Handle adds a new Handler for the path of given message. It panics if the
// path is invalid or a handler was already registered for it.
func (r *Router) Handle(m flow.Msg, h flow.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Check dispatches to the handler of the message path.
func (r *Router) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the handler of the message path.
func (r *Router) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

func (r *Router) handler(tx flow.Tx) (flow.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrState, "nil message")
	}
	path := msg.Path()
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
	}
	return h, nil
}
