package middleware

import (
	"context"
	"net/http"

	"github.com/ktyouta/frontauth"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the identity established by [Guard] for the
// current request, if any.
func AuthResultFromContext(ctx context.Context) (*frontauth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*frontauth.AuthResult)
	return res, ok
}

// Guard wraps a handler so that every request is authorized through the
// engine's access-token path. The verified identity is placed on the request
// context; any failure ends the request with 401 and an empty body.
func Guard(engine *frontauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Authorize(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
