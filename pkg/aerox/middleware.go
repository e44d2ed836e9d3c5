package aerox

// Next is the continuation passed to a Middleware, representing the
// remainder of the chain terminated by the router's dispatch (or the
// next middleware inward).
type Next struct {
	inner Handler
}

// Run invokes the rest of the chain.
func (n Next) Run(ctx *Context) error {
	return n.inner.Handle(ctx)
}

// Middleware wraps a Handler invocation. It may inspect ctx, act
// before calling next.Run, inspect/transform the result, or
// short-circuit by returning without calling next.Run at all.
type Middleware interface {
	Call(ctx *Context, next Next) error
}

// MiddlewareFunc adapts a plain function to Middleware.
type MiddlewareFunc func(ctx *Context, next Next) error

func (f MiddlewareFunc) Call(ctx *Context, next Next) error { return f(ctx, next) }

// Stack is an ordered list of middleware, folded around a terminal
// handler into a single composed Handler by Build. Composition order:
// the first middleware added is outermost (runs first on entry, last
// on exit); the last middleware added is innermost, adjacent to the
// terminal handler.
type Stack struct {
	middlewares []Middleware
}

// NewStack returns an empty stack.
func NewStack() *Stack { return &Stack{} }

// Use appends middleware to the stack, in call order.
func (s *Stack) Use(m Middleware) *Stack {
	s.middlewares = append(s.middlewares, m)
	return s
}

// middlewareHandler adapts a Middleware, bound to its own next
// continuation, into a Handler so it can be folded into the chain.
type middlewareHandler struct {
	m    Middleware
	next Next
}

func (mh middlewareHandler) Handle(ctx *Context) error {
	return mh.m.Call(ctx, mh.next)
}

// Build composes the stack around terminal, returning a single
// immutable Handler. Folding proceeds from the last middleware added
// (innermost) to the first (outermost), each wrapping the handler
// built so far.
func (s *Stack) Build(terminal Handler) Handler {
	h := terminal
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = middlewareHandler{m: s.middlewares[i], next: Next{inner: h}}
	}
	return h
}
