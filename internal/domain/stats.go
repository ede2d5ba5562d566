package domain

import "time"

// Event types counted from the public event feed.
const (
	EventPush        = "PushEvent"
	EventPullRequest = "PullRequestEvent"
	EventIssues      = "IssuesEvent"
)

// ActivityEvent is a single entry of a user's public event feed.
type ActivityEvent struct {
	Type      string    `json:"type"`
	Repo      string    `json:"repo"`
	CreatedAt time.Time `json:"created_at"`
}

// LanguageCount is one row of the language histogram.
type LanguageCount struct {
	Language string `json:"language" yaml:"language"`
	Repos    int    `json:"repos" yaml:"repos"`
}

// StarStats summarizes the star distribution over the listed repositories.
type StarStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Max    int     `json:"max" yaml:"max"`
}

// ContributionTotals holds last-year contribution counters from the GraphQL API.
type ContributionTotals struct {
	Commits            int `json:"commits" yaml:"commits"`
	PullRequests       int `json:"pull_requests" yaml:"pull_requests"`
	Issues             int `json:"issues" yaml:"issues"`
	Reviews            int `json:"reviews" yaml:"reviews"`
	TotalContributions int `json:"total_contributions" yaml:"total_contributions"`
}

// ActivityAggregate is the rollup over every listed repository plus the recent event feed.
// Languages is ordered by descending count, ties in order of first appearance.
type ActivityAggregate struct {
	ListedRepos   int                 `json:"listed_repos" yaml:"listed_repos"`
	Languages     []LanguageCount     `json:"languages" yaml:"languages"`
	TotalStars    int                 `json:"total_stars" yaml:"total_stars"`
	TotalForks    int                 `json:"total_forks" yaml:"total_forks"`
	TotalWatchers int                 `json:"total_watchers" yaml:"total_watchers"`
	Stars         StarStats           `json:"star_stats" yaml:"star_stats"`
	RecentPushes  int                 `json:"recent_pushes" yaml:"recent_pushes"`
	RecentPRs     int                 `json:"recent_pull_requests" yaml:"recent_pull_requests"`
	RecentIssues  int                 `json:"recent_issues" yaml:"recent_issues"`
	Contributions *ContributionTotals `json:"contributions,omitempty" yaml:"contributions,omitempty"`
}
