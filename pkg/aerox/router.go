package aerox

import (
	"sync"

	"aerox/internal/aeroxerr"
)

// Handler processes one frame's Context. Returning an error does not
// close the connection; it is logged by the worker and the next frame
// is read.
type Handler interface {
	Handle(ctx *Context) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx *Context) error

func (f HandlerFunc) Handle(ctx *Context) error { return f(ctx) }

// Router maps message_id to Handler. It is write-once at startup
// (Register) and read-only afterward (Dispatch); the zero value is
// ready to use.
type Router struct {
	mu     sync.RWMutex
	routes map[uint16]Handler
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[uint16]Handler)}
}

// Register binds messageID to handler. It fails with a Router-kind
// error if messageID is already registered; the existing handler is
// left in force.
func (r *Router) Register(messageID uint16, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.routes[messageID]; exists {
		return aeroxerr.RouterErr("route already exists for message_id %d", messageID)
	}
	if r.routes == nil {
		r.routes = make(map[uint16]Handler)
	}
	r.routes[messageID] = handler
	return nil
}

// Dispatch looks up messageID and invokes its handler. A miss returns
// a Router-kind RouteNotFound error; the caller (the worker's reader
// loop) logs it and continues without closing the connection.
func (r *Router) Dispatch(ctx *Context) error {
	r.mu.RLock()
	h, ok := r.routes[ctx.MessageID]
	r.mu.RUnlock()
	if !ok {
		return aeroxerr.RouterErr("no route for message_id %d", ctx.MessageID)
	}
	return h.Handle(ctx)
}
