// internal/app/system/requestid/requestid.go

// Package requestid tags each request with an ID for log correlation.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the request/response header carrying the ID.
const Header = "X-Request-ID"

type ctxKey struct{}

// Middleware reuses an inbound X-Request-ID when it parses as a UUID and
// otherwise assigns a new one. The ID is echoed on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(With(r.Context(), id)))
	})
}

// With returns a copy of ctx carrying id.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the request ID in ctx, or "" if none.
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
