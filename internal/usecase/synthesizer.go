package usecase

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naka-gawa/github-snapshot/internal/domain"
)

// Default character budgets for README text: what is stored per repository,
// and what is quoted per repository in the summary text.
const (
	DefaultReadmeLimit  = 3000
	DefaultExcerptLimit = 1200
)

// Synthesizer renders the summary text. It is a pure function of its inputs.
// A non-positive ExcerptLimit means DefaultExcerptLimit.
type Synthesizer struct {
	ExcerptLimit int
}

func (s Synthesizer) excerptLimit() int {
	if s.ExcerptLimit <= 0 {
		return DefaultExcerptLimit
	}
	return s.ExcerptLimit
}

// Synthesize builds the snapshot. Identical inputs always give a byte-identical SummaryString.
func (s Synthesizer) Synthesize(profile domain.Profile, agg domain.ActivityAggregate, details []domain.RepositoryDetail) *domain.Snapshot {
	repos := slices.Clone(details)
	if repos == nil {
		repos = []domain.RepositoryDetail{}
	}
	return &domain.Snapshot{
		Profile:       profile,
		Activity:      agg,
		Repositories:  repos,
		SummaryString: s.Render(profile, agg, details),
	}
}

// Render produces the summary text: profile, community impact, language distribution,
// then one block per analyzed repository.
func (s Synthesizer) Render(profile domain.Profile, agg domain.ActivityAggregate, details []domain.RepositoryDetail) string {
	var b strings.Builder
	excerptLimit := s.excerptLimit()

	fmt.Fprintf(&b, "USER: %s\n", profile.Login)
	fmt.Fprintf(&b, "BIO: %s\n", orNA(profile.Bio))
	fmt.Fprintf(&b, "LOCATION: %s\n", orNA(profile.Location))
	fmt.Fprintf(&b, "PUBLIC REPOS: %d\n", profile.PublicRepos)
	fmt.Fprintf(&b, "FOLLOWERS: %d\n", profile.Followers)
	fmt.Fprintf(&b, "FOLLOWING: %d\n", profile.Following)
	fmt.Fprintf(&b, "ACCOUNT CREATED: %s\n", formatTime(profile.CreatedAt))

	b.WriteString("\nCOMMUNITY IMPACT (positive signals):\n")
	fmt.Fprintf(&b, "TOTAL STARS EARNED: %d\n", agg.TotalStars)
	fmt.Fprintf(&b, "TOTAL FORKS BY OTHERS: %d\n", agg.TotalForks)
	fmt.Fprintf(&b, "TOTAL WATCHERS: %d\n", agg.TotalWatchers)
	fmt.Fprintf(&b, "STARS PER REPO: mean %.2f, median %.2f, max %d\n", agg.Stars.Mean, agg.Stars.Median, agg.Stars.Max)
	fmt.Fprintf(&b, "RECENT PUSH EVENTS: %d\n", agg.RecentPushes)
	fmt.Fprintf(&b, "RECENT PULL REQUEST EVENTS: %d\n", agg.RecentPRs)
	fmt.Fprintf(&b, "RECENT ISSUE EVENTS: %d\n", agg.RecentIssues)
	if c := agg.Contributions; c != nil {
		fmt.Fprintf(&b, "CONTRIBUTIONS LAST YEAR: %d (commits %d, pull requests %d, issues %d, reviews %d)\n",
			c.TotalContributions, c.Commits, c.PullRequests, c.Issues, c.Reviews)
	}

	fmt.Fprintf(&b, "\nLANGUAGE DISTRIBUTION (across %d repos): %s\n", agg.ListedRepos, languageLine(agg.Languages))

	fmt.Fprintf(&b, "\nANALYZED REPOSITORIES (%d original, non-fork repos):\n", len(details))
	for _, d := range details {
		b.WriteString("\n")
		fmt.Fprintf(&b, "--- REPO: %s ---\n", d.Name)
		fmt.Fprintf(&b, "LANGUAGE: %s\n", orNA(d.Language))
		fmt.Fprintf(&b, "STARS: %d\n", d.Stars)
		fmt.Fprintf(&b, "FORKS: %d\n", d.Forks)
		fmt.Fprintf(&b, "OPEN ISSUES: %d\n", d.OpenIssues)
		fmt.Fprintf(&b, "DESCRIPTION: %s\n", orDefault(d.Description, domain.NoDescription))
		fmt.Fprintf(&b, "README (excerpt): %s\n", truncate(d.Readme, excerptLimit))
		fmt.Fprintf(&b, "RECENT COMMITS: %s\n", commitLine(d.Commits))
	}
	return b.String()
}

func languageLine(langs []domain.LanguageCount) string {
	if len(langs) == 0 {
		return domain.NotAvailable
	}
	parts := make([]string, 0, len(langs))
	for _, l := range langs {
		parts = append(parts, fmt.Sprintf("%s: %d repos", l.Language, l.Repos))
	}
	return strings.Join(parts, ", ")
}

// commitLine keeps the order GitHub returned, newest first.
func commitLine(commits []domain.CommitRecord) string {
	if len(commits) == 0 {
		return domain.NoCommits
	}
	parts := make([]string, 0, len(commits))
	for _, c := range commits {
		message := strings.Join(strings.Fields(c.Message), " ")
		parts = append(parts, fmt.Sprintf("[%s] %s", formatTime(c.Date), message))
	}
	return strings.Join(parts, " | ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return domain.NotAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

func orNA(s string) string {
	return orDefault(s, domain.NotAvailable)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// truncate cuts s to at most limit characters without splitting a UTF-8 sequence.
// Callers resolve their budgets first; a non-positive limit leaves s whole.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
