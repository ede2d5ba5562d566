package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		valid    bool
	}{
		{name: "simple", username: "alice", valid: true},
		{name: "single character", username: "a", valid: true},
		{name: "inner hyphen", username: "naka-gawa", valid: true},
		{name: "digits", username: "user123", valid: true},
		{name: "maximum length", username: strings.Repeat("a", 39), valid: true},
		{name: "empty", username: "", valid: false},
		{name: "too long", username: strings.Repeat("a", 40), valid: false},
		{name: "leading hyphen", username: "-alice", valid: false},
		{name: "trailing hyphen", username: "alice-", valid: false},
		{name: "consecutive hyphens", username: "a--b", valid: false},
		{name: "space", username: "al ice", valid: false},
		{name: "path traversal", username: "../etc", valid: false},
		{name: "underscore", username: "al_ice", valid: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidUsername)
			}
		})
	}
}

func TestRateLimitError(t *testing.T) {
	reset := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name            string
		err             *RateLimitError
		expectedMinutes int
		expectedMessage string
	}{
		{
			name:            "authenticated, partial minute rounds up",
			err:             &RateLimitError{ResetAt: reset, Wait: 150 * time.Second, Authenticated: true},
			expectedMinutes: 3,
			expectedMessage: "GitHub API rate limit exceeded. Check that your GitHub token is valid. Resets in ~3 min.",
		},
		{
			name:            "unauthenticated suggests a token",
			err:             &RateLimitError{ResetAt: reset, Wait: 10 * time.Minute},
			expectedMinutes: 10,
			expectedMessage: "GitHub API rate limit exceeded. Add a GITHUB_TOKEN to your .env file to get 5000 requests/hour " +
				"(currently using unauthenticated: 60/hour). Resets in ~10 min.",
		},
		{
			name:            "reset already passed",
			err:             &RateLimitError{ResetAt: reset, Wait: -time.Minute, Authenticated: true},
			expectedMinutes: 0,
			expectedMessage: "GitHub API rate limit exceeded. Check that your GitHub token is valid. Resets in ~0 min.",
		},
		{
			name:            "reset unknown",
			err:             &RateLimitError{Authenticated: true},
			expectedMinutes: -1,
			expectedMessage: "GitHub API rate limit exceeded. Check that your GitHub token is valid. Resets in ~? min.",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMinutes, tc.err.Minutes())
			assert.Equal(t, tc.expectedMessage, tc.err.Error())
		})
	}
}

func TestUpstreamError(t *testing.T) {
	assert.Equal(t, "GitHub API error: 502 Bad Gateway", (&UpstreamError{StatusCode: 502, Status: "Bad Gateway"}).Error())
	assert.Equal(t, "GitHub API error: 409 Conflict: Git Repository is empty.",
		(&UpstreamError{StatusCode: 409, Status: "Conflict", Message: "Git Repository is empty."}).Error())
}

func TestIsResponseError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "not found", err: fmt.Errorf("readme: %w", ErrNotFound), expected: true},
		{name: "rate limited", err: &RateLimitError{}, expected: true},
		{name: "wrapped upstream", err: fmt.Errorf("commits: %w", &UpstreamError{StatusCode: 500}), expected: true},
		{name: "invalid response", err: ErrInvalidResponse, expected: false},
		{name: "transport", err: errors.New("connection refused"), expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsResponseError(tc.err))
		})
	}
}

func TestSelectDeepDive(t *testing.T) {
	var repos []RepositorySummary
	for i := range 15 {
		repos = append(repos, RepositorySummary{Name: fmt.Sprintf("r%d", i), Fork: i%4 == 0})
	}

	selected := SelectDeepDive(repos, 10)

	assert.Len(t, selected, 10)
	names := make([]string, 0, len(selected))
	for _, r := range selected {
		assert.False(t, r.Fork)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"r1", "r2", "r3", "r5", "r6", "r7", "r9", "r10", "r11", "r13"}, names)

	assert.Empty(t, SelectDeepDive(nil, 10))
	assert.Empty(t, SelectDeepDive(repos, 0))
	assert.Empty(t, SelectDeepDive([]RepositorySummary{{Name: "f", Fork: true}}, 10))
}
