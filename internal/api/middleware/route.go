package middleware

import (
	"context"
	"net/http"
)

type routeKey struct{}

type routeHolder struct {
	pattern string
}

// withRoute makes sure the request carries a holder for the matched pattern
// and returns it. Nested middleware share the outermost holder.
func withRoute(r *http.Request) (*http.Request, *routeHolder) {
	if holder, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
		return r, holder
	}
	holder := &routeHolder{}
	return r.WithContext(context.WithValue(r.Context(), routeKey{}, holder)), holder
}

// TagRoute records the mux pattern that matched the request so middleware
// wrapping the mux can label logs and metrics by route
func TagRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if holder, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
			holder.pattern = r.Pattern
		}
		next.ServeHTTP(w, r)
	})
}

func (h *routeHolder) route() string {
	if h.pattern == "" {
		return "unmatched"
	}
	return h.pattern
}
