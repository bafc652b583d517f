// Package middleware holds HTTP middleware shared by the dashboard handlers.
package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const htmxKey contextKey = "htmx"

// HTMXRequest describes the htmx headers of an incoming request.
type HTMXRequest struct {
	Enabled bool
	Boosted bool
	Target  string
}

// HTMX records the htmx request headers in the request context.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hx := HTMXRequest{
			Enabled: r.Header.Get("HX-Request") == "true",
			Boosted: r.Header.Get("HX-Boosted") == "true",
			Target:  r.Header.Get("HX-Target"),
		}
		ctx := context.WithValue(r.Context(), htmxKey, hx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HTMXFrom returns the htmx state stored by HTMX. Requests that did not pass
// through the middleware report a zero value.
func HTMXFrom(r *http.Request) HTMXRequest {
	hx, _ := r.Context().Value(htmxKey).(HTMXRequest)
	return hx
}

// IsHTMX reports whether the request expects an htmx fragment. Boosted
// navigations want the full page.
func IsHTMX(r *http.Request) bool {
	hx := HTMXFrom(r)
	return hx.Enabled && !hx.Boosted
}

// Redirect tells htmx to navigate the browser to url.
func Redirect(w http.ResponseWriter, url string) {
	w.Header().Set("HX-Redirect", url)
}
