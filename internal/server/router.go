package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ChiRouter implements the [Router] interface with [chi.Mux].
type ChiRouter struct {
	mux *chi.Mux
}

// NewRouter creates a [ChiRouter] with request IDs, panic recovery and request logging.
func NewRouter(logger *log.Logger) *ChiRouter {
	r := &ChiRouter{mux: chi.NewRouter()}
	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.Recoverer)
	if logger != nil {
		r.mux.Use(RequestLogger(logger))
	}
	return r
}

// Use adds [Middleware] to the router's middleware stack, applied in the order it's added.
//
// chi requires all middleware to be registered before the first route.
func (r *ChiRouter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.mux.Use(m)
	}
}

// Handle registers a handler for the specified HTTP method and path.
//
// Other methods on the same path receive 405 Method Not Allowed.
func (r *ChiRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, handler)
}

// Handler registers a custom Handler implementation for GET requests.
//
// All routes returned by [Handler.Routes] are registered with this handler.
func (r *ChiRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Method(http.MethodGet, route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
