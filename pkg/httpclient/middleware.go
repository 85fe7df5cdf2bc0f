package httpclient

import (
	"net/http"
)

// Middleware is a function that wraps an http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain composes middlewares so they execute in the given order.
func Chain(middlewares ...Middleware) Middleware {
	return func(base http.RoundTripper) http.RoundTripper {
		for i := len(middlewares) - 1; i >= 0; i-- {
			base = middlewares[i](base)
		}
		return base
	}
}
