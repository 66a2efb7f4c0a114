// Package identity carries the authenticated caller through context.Context.
package identity

import "context"

type Requester struct {
	UserID  uint
	IsAdmin bool
}

// Anonymous reports whether no user is attached.
func (r Requester) Anonymous() bool { return r.UserID == 0 }

type contextKey struct{}

func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the requester stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Requester {
	if r, ok := ctx.Value(contextKey{}).(Requester); ok {
		return r
	}
	return Requester{}
}
