package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrChallengeUnsolved is returned when a challenge page set no cookies.
var ErrChallengeUnsolved = errors.New("challenge issued no trust tokens")

// ChallengeSolver refreshes the session's trust tokens for target so that the
// next request to the same host is expected to pass.
type ChallengeSolver interface {
	Solve(ctx context.Context, target string) error
}

// CookieChallenge loads target the way a browser would, through the shared
// session, so any Set-Cookie trust tokens land in the session jar.
type CookieChallenge struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewCookieChallenge creates a solver that shares httpClient's cookie jar.
func NewCookieChallenge(httpClient *http.Client, userAgent string, logger zerolog.Logger) *CookieChallenge {
	return &CookieChallenge{
		client:    httpClient,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Solve implements ChallengeSolver.
func (s *CookieChallenge) Solve(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build challenge request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("load challenge page: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	issued := len(resp.Cookies())
	s.logger.Debug().
		Str("target", target).
		Int("status", resp.StatusCode).
		Int("cookies", issued).
		Msg("Challenge page loaded")

	if issued == 0 {
		return fmt.Errorf("%w (status %d)", ErrChallengeUnsolved, resp.StatusCode)
	}
	return nil
}
