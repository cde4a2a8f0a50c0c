package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRouter implements the [Router] interface on top of [chi.Mux].
//
// chi handles method dispatch and middleware ordering; this type only
// bridges the [Handler] registration convention.
type ChiRouter struct {
	mux *chi.Mux
}

// NewRouter creates a new [ChiRouter] instance.
func NewRouter() *ChiRouter {
	return &ChiRouter{mux: chi.NewRouter()}
}

// Use adds [Middleware] to the router's middleware stack, applied in the order it's added.
func (r *ChiRouter) Use(middleware ...Middleware) {
	for _, m := range middleware {
		r.mux.Use(m)
	}
}

// Handle registers a handler for the specified HTTP method and path.
func (r *ChiRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, handler)
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered with this handler.
func (r *ChiRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
