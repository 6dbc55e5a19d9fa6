// Package kit holds the transport plumbing shared by the HTTP and MCP
// surfaces: the Endpoint abstraction, middleware chaining, and request
// metadata carried in context.
package kit

import "context"

// Endpoint is a transport-agnostic request handler. HTTP handlers and MCP
// tools both decode into a typed request and delegate to an Endpoint.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares outermost-first: Chain(a, b)(e) runs a, then b,
// then e.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
