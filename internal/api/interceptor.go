package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/comigor/memoria/internal/credential"
)

// Interceptor mutates an outgoing request before it is sent. Returning an
// error aborts the request.
type Interceptor func(req *http.Request) error

// BearerToken attaches "Authorization: Bearer <token>" when src holds a token.
// Requests proceed without the header otherwise; the backend enforces auth.
func BearerToken(src credential.Source) Interceptor {
	return func(req *http.Request) error {
		if tok, ok := src.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+string(tok))
		}
		return nil
	}
}

// RequestID tags each request with a fresh X-Request-ID unless one is set.
func RequestID() Interceptor {
	return func(req *http.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}
		return nil
	}
}
