package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// maxAttempts is the initial request plus the one retry after a challenge.
const maxAttempts = 2

var trnChallengeSolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trn_challenge_solves_total",
	Help: "Total challenge solves triggered by 403 responses, by result",
}, []string{"result"})

// envelope is the tracker.gg response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// doAttempt performs one GET with its own timeout and returns the envelope's
// data field. Every failure is a *TRNError.
func (c *Client) doAttempt(ctx context.Context, target string, query url.Values, endpoint string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.AttemptTimeout)
	defer cancel()

	u := target
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TRNError{ErrorClass: ErrorClassClient, Message: "build request", Err: err}
	}
	req.Header.Set(APIKeyHeader, c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", u).
		Msg("Executing tracker request")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	trnRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())

	if err != nil {
		trnErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		trnRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &TRNError{ErrorClass: ErrorClassNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	trnRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		trnErrorsTotal.WithLabelValues(string(class)).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &TRNError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    resp.Status,
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		trnErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &TRNError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "decode envelope",
			Err:        err,
		}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		trnErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &TRNError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "envelope has no data field",
		}
	}

	return env.Data, nil
}

// solveChallenge runs the solver once against target. Its outcome never
// changes control flow: the caller always makes its second attempt.
func (c *Client) solveChallenge(ctx context.Context, target string) {
	ctx, cancel := context.WithTimeout(ctx, c.config.AttemptTimeout)
	defer cancel()

	if err := c.solver.Solve(ctx, target); err != nil {
		trnChallengeSolvesTotal.WithLabelValues("failed").Inc()
		c.logger.Warn().Err(err).Str("target", target).Msg("Challenge solve failed")
		return
	}
	trnChallengeSolvesTotal.WithLabelValues("ok").Inc()
}

// shouldRetry reports whether a failed attempt earns another one.
// Only an access-denied first attempt does.
func shouldRetry(class ErrorClass, attempt int) bool {
	return class == ErrorClassAccessDenied && attempt < maxAttempts
}

// attemptString renders an attempt counter for logs ("1/2").
func attemptString(attempt int) string {
	return fmt.Sprintf("%d/%d", attempt, maxAttempts)
}
