package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"roadwatch/internal/auth"
)

// Authenticate resolves a bearer token (header first, legacy cookie second)
// through the external identity service and puts the reporter on the request
// context. Requests without a resolvable identity are rejected.
func Authenticate(verifier auth.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			reporter, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("token verification failed",
					slog.String("remote", r.RemoteAddr),
					slog.Any("error", err),
				)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithReporter(r.Context(), reporter)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}
