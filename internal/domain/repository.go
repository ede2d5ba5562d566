package domain

import "time"

// Sentinel texts substituted when a deep-dive sub-fetch does not produce data.
const (
	NoReadme         = "No README found"
	DetailsUnfetched = "Could not fetch details"
	NotAvailable     = "N/A"
	NoDescription    = "No description"
	NoCommits        = "No commits"
)

// RepositorySummary is one entry of the user's repository listing.
type RepositorySummary struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string    `json:"language,omitempty" yaml:"language,omitempty"`
	Stars       int       `json:"stars" yaml:"stars"`
	Forks       int       `json:"forks" yaml:"forks"`
	Watchers    int       `json:"watchers" yaml:"watchers"`
	OpenIssues  int       `json:"open_issues" yaml:"open_issues"`
	Fork        bool      `json:"fork" yaml:"fork"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// CommitRecord is a commit projected down to what downstream consumers read.
type CommitRecord struct {
	Message string    `json:"message" yaml:"message"`
	Date    time.Time `json:"date" yaml:"date"`
}

// RepositoryDetail extends a summary with README text and recent commits,
// most recent first.
type RepositoryDetail struct {
	RepositorySummary  `yaml:",inline"`
	Readme             string         `json:"readme" yaml:"readme"`
	Commits            []CommitRecord `json:"commits" yaml:"commits"`
	DetailsUnavailable bool           `json:"details_unavailable,omitempty" yaml:"details_unavailable,omitempty"`
}

// UnavailableDetail is the placeholder used when a repository's whole detail task failed.
// Counters are carried over from the listing so the entry still contributes its facts.
func UnavailableDetail(repo RepositorySummary) RepositoryDetail {
	return RepositoryDetail{
		RepositorySummary:  repo,
		Readme:             DetailsUnfetched,
		Commits:            []CommitRecord{},
		DetailsUnavailable: true,
	}
}

// SelectDeepDive keeps the first limit non-fork repositories, preserving the listing order.
// The listing is requested sorted by last update, so the result is the most recently updated originals.
func SelectDeepDive(repos []RepositorySummary, limit int) []RepositorySummary {
	selected := make([]RepositorySummary, 0, max(limit, 0))
	for _, repo := range repos {
		if len(selected) >= limit {
			break
		}
		if repo.Fork {
			continue
		}
		selected = append(selected, repo)
	}
	return selected
}
