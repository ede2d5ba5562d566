package gateway

import (
	"context"
	"fmt"

	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/shurcooL/githubv4"
)

// contributionsQuery reads the last year of the user's contributions collection.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			TotalCommitContributions            int
			TotalPullRequestContributions       int
			TotalIssueContributions             int
			TotalPullRequestReviewContributions int
			ContributionCalendar                struct {
				TotalContributions int
			}
		}
	} `graphql:"user(login: $login)"`
}

func (g *GitHubGateway) FetchContributions(ctx context.Context, username string) (*domain.ContributionTotals, error) {
	if g.graphqlClient == nil {
		return nil, nil
	}
	g.logger.WithField("username", username).Debug("Fetching contributions collection")

	var q contributionsQuery
	variables := map[string]interface{}{"login": githubv4.String(username)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for contributions: %w", err)
	}
	c := q.User.ContributionsCollection
	return &domain.ContributionTotals{
		Commits:            c.TotalCommitContributions,
		PullRequests:       c.TotalPullRequestContributions,
		Issues:             c.TotalIssueContributions,
		Reviews:            c.TotalPullRequestReviewContributions,
		TotalContributions: c.ContributionCalendar.TotalContributions,
	}, nil
}
