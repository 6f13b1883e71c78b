package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"roadwatch/internal/config"
	"roadwatch/internal/domain"
	"roadwatch/pkg/e"
)

// HTTPVerifier asks the identity service to resolve a token. The service is
// a collaborator outside this process; any non-auth failure maps to upstream.
type HTTPVerifier struct {
	verifyURL string
	client    *http.Client
	logger    *slog.Logger
}

func NewHTTPVerifier(cfg config.AuthConfig, logger *slog.Logger) *HTTPVerifier {
	return &HTTPVerifier{
		verifyURL: cfg.VerifyURL,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*domain.Reporter, error) {
	const op = "auth.HTTPVerifier.Verify"

	if token == "" {
		return nil, fmt.Errorf("%s: empty token: %w", op, e.ErrUnauthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.verifyURL, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("identity service unreachable", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrUpstream)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthenticated)
	default:
		v.logger.Warn("identity service non-success response", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, e.ErrUpstream)
	}

	var reporter domain.Reporter
	if err := json.NewDecoder(resp.Body).Decode(&reporter); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, e.ErrUpstream)
	}
	if reporter.ID == 0 {
		return nil, fmt.Errorf("%s: no reporter id: %w", op, e.ErrUnauthenticated)
	}

	return &reporter, nil
}
