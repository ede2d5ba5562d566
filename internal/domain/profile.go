// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Profile holds the identity and account-level counters of a GitHub user.
// It is fetched once per snapshot and never mutated afterwards.
type Profile struct {
	Login       string    `json:"login" yaml:"login"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Bio         string    `json:"bio,omitempty" yaml:"bio,omitempty"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty" yaml:"html_url,omitempty"`
	PublicRepos int       `json:"public_repos" yaml:"public_repos"`
	Followers   int       `json:"followers" yaml:"followers"`
	Following   int       `json:"following" yaml:"following"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// GitHub logins: alphanumerics separated by single hyphens, at most 39 characters.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:-?[A-Za-z0-9])*$`)

// ValidateUsername rejects names that GitHub could never have issued.
// It runs before any network call so that malformed input never reaches the API path.
func ValidateUsername(username string) error {
	if username == "" || len(username) > 39 || !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}
