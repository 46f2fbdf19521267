// Package reqid assigns every HTTP request an ID and propagates it via
// context and the X-Request-ID header, so log lines from one request can
// be correlated across services.
//
//	r.Use(reqid.Middleware())
//	...
//	id := reqid.FromCtx(r.Context())
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

type ctxKey struct{}

// Header carries the request ID on the wire.
const Header = "X-Request-ID"

// Inbound IDs longer than this are replaced rather than trusted.
const maxInboundLen = 64

// New returns a random 32-character hex ID.
func New() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithValue stores id in ctx.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request ID from ctx, or "" if none is set.
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware reuses a sane inbound X-Request-ID (so gateways can trace
// across hops) or mints a fresh one, then echoes it on the response and
// stores it in the request context.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > maxInboundLen {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
