package gateway

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/github-snapshot/internal/config"
	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// InterpretRateLimit decides whether a 403 response means the primary quota is exhausted.
// It returns nil for any other response, including a 403 whose remaining count is
// nonzero or missing; those are ordinary forbidden errors.
func InterpretRateLimit(resp *http.Response, authenticated bool, now time.Time) *domain.RateLimitError {
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		return nil
	}
	if resp.Header.Get(headerRateRemaining) != "0" {
		return nil
	}
	var reset time.Time
	if v := resp.Header.Get(headerRateReset); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			reset = time.Unix(epoch, 0)
		}
	}
	return newRateLimitError(reset, authenticated, now)
}

func newRateLimitError(reset time.Time, authenticated bool, now time.Time) *domain.RateLimitError {
	rl := &domain.RateLimitError{ResetAt: reset, Authenticated: authenticated}
	if !reset.IsZero() {
		rl.Wait = reset.Sub(now)
	}
	return rl
}

// noCacheTransport asks every intermediary for a fresh answer so repeated runs see current data.
type noCacheTransport struct {
	base http.RoundTripper
}

func (t noCacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Cache-Control", "no-cache")
	return t.base.RoundTrip(req)
}

// newHTTPClient layers the token source over the secondary rate limit waiter.
// Primary quota exhaustion is never waited on; it surfaces as a RateLimitError.
func newHTTPClient(cfg config.Config, logger *logrus.Logger) (*http.Client, error) {
	onLimit := func(cbContext *github_ratelimit.CallbackContext) {
		entry := logger.WithField("max_wait", cfg.SecondaryWait)
		if cbContext.Request != nil {
			entry = entry.WithField("path", cbContext.Request.URL.Path)
		}
		if cbContext.SleepUntil != nil {
			entry = entry.WithField("until", cbContext.SleepUntil.Format(time.RFC3339))
		}
		entry.Warn("Secondary rate limit hit; not waiting for it")
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(
		noCacheTransport{base: http.DefaultTransport},
		github_ratelimit.WithSingleSleepLimit(cfg.SecondaryWait, onLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if cfg.Authenticated() {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}, nil
}
