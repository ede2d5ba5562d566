package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNotFound is returned when GitHub answers 404 for the requested resource.
	ErrNotFound = errors.New("not found on GitHub")
	// ErrInvalidResponse is returned when GitHub answers 2xx with a body of an unexpected shape.
	ErrInvalidResponse = errors.New("unexpected response shape from GitHub")
	// ErrInvalidUsername is returned for names that cannot be GitHub logins.
	ErrInvalidUsername = errors.New("invalid GitHub username")
)

// RateLimitError reports an exhausted primary quota.
// The pipeline never waits on it; Wait is a hint for the caller.
type RateLimitError struct {
	ResetAt       time.Time
	Wait          time.Duration
	Authenticated bool
}

// WaitKnown reports whether the reset time was advertised by GitHub.
func (e *RateLimitError) WaitKnown() bool {
	return !e.ResetAt.IsZero()
}

// Minutes returns the wait rounded up to the next whole minute, or -1 when unknown.
func (e *RateLimitError) Minutes() int {
	if !e.WaitKnown() {
		return -1
	}
	if e.Wait <= 0 {
		return 0
	}
	return int(math.Ceil(e.Wait.Minutes()))
}

func (e *RateLimitError) Error() string {
	wait := "?"
	if m := e.Minutes(); m >= 0 {
		wait = fmt.Sprint(m)
	}
	if e.Authenticated {
		return fmt.Sprintf("GitHub API rate limit exceeded. Check that your GitHub token is valid. Resets in ~%s min.", wait)
	}
	return fmt.Sprintf("GitHub API rate limit exceeded. Add a GITHUB_TOKEN to your .env file to get 5000 requests/hour "+
		"(currently using unauthenticated: 60/hour). Resets in ~%s min.", wait)
}

// UpstreamError is any other non-2xx answer from GitHub.
type UpstreamError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("GitHub API error: %d %s", e.StatusCode, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsResponseError reports whether err stands for an HTTP answer GitHub actually gave
// (not found, rate limited, or another non-2xx status), as opposed to a transport or decoding failure.
func IsResponseError(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var up *UpstreamError
	return errors.As(err, &up)
}
