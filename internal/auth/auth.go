package auth

import (
	"context"

	"roadwatch/internal/domain"
)

// Verifier exchanges a bearer token for a reporter profile. Token issuance
// and session management belong to the external identity service; this
// package only consumes it.
//
//go:generate mockgen -source=auth.go -destination=mocks/mock.go
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Reporter, error)
}

type ctxKey struct{}

func WithReporter(ctx context.Context, r *domain.Reporter) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

func ReporterFrom(ctx context.Context) (*domain.Reporter, bool) {
	r, ok := ctx.Value(ctxKey{}).(*domain.Reporter)
	return r, ok
}
