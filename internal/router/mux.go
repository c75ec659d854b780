package router

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/logger"
)

// mux is the private implementation of the Router interface.
type mux[C handler.Context] struct {
	// routes maps path -> method -> handler (group middleware already
	// chained in at registration time).
	routes       map[string]map[string]handler.HandlerFunc[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	log          interface {
		Error(msg string, args ...any)
	}

	// inline groups share the parent's route table and add middleware at
	// registration time.
	parent *mux[C]
	sealed bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		routes:       make(map[string]map[string]handler.HandlerFunc[C]),
		errorHandler: defaultErrorHandler[C],
		log:          logger.Noop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	root := m.root()
	ww := newResponseWriter(w)

	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	ctx := root.newContext(ww, r)

	// Recover from handler panics so one request cannot crash the process.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				root.log.Error("panic after response written",
					"value", panicErr.value,
					"path", r.URL.Path,
					"method", r.Method,
					"stack", string(panicErr.stack),
				)
				return
			}
			root.errorHandler(ctx, panicErr)
		}
	}()

	methods, ok := root.routes[path]
	if !ok {
		root.errorHandler(ctx, ErrNotFound)
		return
	}

	fn, ok := methods[r.Method]
	if !ok {
		allowed := make([]string, 0, len(methods))
		for method := range methods {
			allowed = append(allowed, method)
		}
		sort.Strings(allowed)
		ww.Header().Set("Allow", strings.Join(allowed, ", "))
		root.errorHandler(ctx, ErrMethodNotAllowed)
		return
	}

	if len(root.middlewares) > 0 {
		fn = chain(root.middlewares, fn)
	}

	resp := fn(ctx)
	if resp == nil {
		root.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := resp(ww, ctx.Request()); err != nil {
		root.errorHandler(ctx, err)
	}
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}
	for _, method := range methods {
		m.handle(strings.ToUpper(method), pattern, h)
	}
}

// Use appends middleware to the router. All middleware must be registered
// before any route.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.sealed {
		panic("router: all middlewares must be defined before routes")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates an inline router whose additional middleware applies only to
// routes registered through it.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		parent:      m,
		middlewares: middlewares,
	}
}

// Group creates an inline router for grouping routes under shared
// middleware.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// handle registers a route, chaining inline-group middleware into the
// handler before storing it in the root route table.
func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	if h == nil {
		panic(fmt.Errorf("router: nil handler for %s %s", method, pattern))
	}
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
	}

	// Inline groups chain their own (not the root's) middleware at
	// registration; the root's middleware wraps at serve time.
	if m.parent != nil {
		if len(m.middlewares) > 0 {
			h = chain(m.middlewares, h)
		}
		m.parent.handle(method, pattern, h)
		return
	}

	m.sealed = true
	if m.routes[pattern] == nil {
		m.routes[pattern] = make(map[string]handler.HandlerFunc[C])
	}
	if _, exists := m.routes[pattern][method]; exists {
		panic(fmt.Errorf("router: duplicate route %s %s", method, pattern))
	}
	m.routes[pattern][method] = h
}

func (m *mux[C]) root() *mux[C] {
	cur := m
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// chain wraps a handler with middleware, first middleware outermost.
func chain[C handler.Context](middlewares []handler.Middleware[C], h handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
