// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/google/go-github/v84/github"
	"github.com/naka-gawa/github-snapshot/internal/config"
	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
)

// Page sizes requested from GitHub. Only the first page is ever read.
const (
	MaxListedRepos = 30
	MaxCommits     = 5
	MaxEvents      = 100
)

const mediaTypeRaw = "application/vnd.github.raw"

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
	FetchRepositories(ctx context.Context, username string) ([]domain.RepositorySummary, error)
	FetchPublicEvents(ctx context.Context, username string) ([]domain.ActivityEvent, error)
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
	FetchCommits(ctx context.Context, owner, repo string) ([]domain.CommitRecord, error)
	// FetchContributions returns nil without error when the gateway has no credential,
	// since the GraphQL API refuses anonymous callers.
	FetchContributions(ctx context.Context, username string) (*domain.ContributionTotals, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// It holds no mutable state of its own and is safe for concurrent use.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *logrus.Logger
	authenticated bool
	now           func() time.Time
	// readmeByteCap bounds how much of a README body is kept in memory.
	readmeByteCap int
}

// NewGitHubGateway creates a gateway from the given configuration.
// The credential, if any, is fixed at construction time.
func NewGitHubGateway(cfg config.Config, logger *logrus.Logger) (*GitHubGateway, error) {
	httpClient, err := newHTTPClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	restClient := github.NewClient(httpClient)
	baseURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
	}
	restClient.BaseURL = baseURL

	readmeLimit := cfg.ReadmeLimit
	if readmeLimit <= 0 {
		readmeLimit = config.DefaultReadmeLimit
	}
	g := &GitHubGateway{
		restClient:    restClient,
		logger:        logger,
		authenticated: cfg.Authenticated(),
		now:           time.Now,
		// Enough bytes for readmeLimit characters of any width.
		readmeByteCap: readmeLimit * utf8.UTFMax,
	}
	if cfg.Authenticated() {
		g.graphqlClient = githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient)
		logger.WithField("source", cfg.TokenSource).Debug("Using GitHub token")
	} else {
		logger.Debug("No GitHub token configured; using the unauthenticated quota")
	}
	return g, nil
}

func (g *GitHubGateway) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	g.logger.WithField("username", username).Debug("Fetching profile")
	user, _, err := g.restClient.Users.Get(ctx, username)
	if err != nil {
		return nil, g.classify(err, "user "+username)
	}
	return &domain.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Location:    user.GetLocation(),
		HTMLURL:     user.GetHTMLURL(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
	}, nil
}

// FetchRepositories lists up to MaxListedRepos repositories, most recently updated first.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, username string) ([]domain.RepositorySummary, error) {
	g.logger.WithField("username", username).Debug("Fetching repositories")
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: MaxListedRepos},
	}
	repos, _, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, g.classify(err, "repositories of "+username)
	}
	// A JSON null decodes without error but is not a list.
	if repos == nil {
		return nil, fmt.Errorf("repositories of %s: %w: expected a list", username, domain.ErrInvalidResponse)
	}
	if len(repos) > MaxListedRepos {
		repos = repos[:MaxListedRepos]
	}

	summaries := make([]domain.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, domain.RepositorySummary{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Language:    r.GetLanguage(),
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			Watchers:    r.GetWatchersCount(),
			OpenIssues:  r.GetOpenIssuesCount(),
			Fork:        r.GetFork(),
			UpdatedAt:   r.GetUpdatedAt().Time,
		})
	}
	return summaries, nil
}

func (g *GitHubGateway) FetchPublicEvents(ctx context.Context, username string) ([]domain.ActivityEvent, error) {
	g.logger.WithField("username", username).Debug("Fetching public events")
	events, _, err := g.restClient.Activity.ListEventsPerformedByUser(ctx, username, true, &github.ListOptions{PerPage: MaxEvents})
	if err != nil {
		return nil, g.classify(err, "events of "+username)
	}
	out := make([]domain.ActivityEvent, 0, len(events))
	for _, e := range events {
		out = append(out, domain.ActivityEvent{
			Type:      e.GetType(),
			Repo:      e.GetRepo().GetName(),
			CreatedAt: e.GetCreatedAt().Time,
		})
	}
	return out, nil
}

// FetchReadme returns the repository README as raw text. At most readmeByteCap bytes are
// kept; the rest of the body is drained and dropped.
func (g *GitHubGateway) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	u := fmt.Sprintf("repos/%s/%s/readme", url.PathEscape(owner), url.PathEscape(repo))
	req, err := g.restClient.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", mediaTypeRaw)

	buf := &cappedBuffer{limit: g.readmeByteCap}
	if _, err := g.restClient.Do(ctx, req, buf); err != nil {
		return "", g.classify(err, "readme of "+owner+"/"+repo)
	}
	return buf.String(), nil
}

// cappedBuffer keeps the first limit bytes written to it and silently drops the rest.
// It has no ReadFrom, so io.Copy always goes through Write.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		b.buf.Write(p[:min(room, len(p))])
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}

// FetchCommits returns up to MaxCommits commits, newest first as GitHub orders them.
func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, repo string) ([]domain.CommitRecord, error) {
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: MaxCommits}}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, g.classify(err, "commits of "+owner+"/"+repo)
	}
	if len(commits) > MaxCommits {
		commits = commits[:MaxCommits]
	}
	records := make([]domain.CommitRecord, 0, len(commits))
	for _, c := range commits {
		records = append(records, domain.CommitRecord{
			Message: c.GetCommit().GetMessage(),
			Date:    c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return records, nil
}

// classify maps go-github errors onto the domain error taxonomy.
func (g *GitHubGateway) classify(err error, what string) error {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
		resp     *http.Response
		message  string
	)
	switch {
	case errors.As(err, &rateErr):
		// go-github also raises this without a round trip once it has seen the quota run out,
		// in which case the response headers are synthetic and only Rate is meaningful.
		if rl := InterpretRateLimit(rateErr.Response, g.authenticated, g.now()); rl != nil {
			return rl
		}
		return newRateLimitError(rateErr.Rate.Reset.Time, g.authenticated, g.now())
	case errors.As(err, &abuseErr):
		resp, message = abuseErr.Response, abuseErr.Message
	case errors.As(err, &respErr):
		resp, message = respErr.Response, respErr.Message
	}

	if resp == nil {
		if isDecodeError(err) {
			return fmt.Errorf("%s: %w: %v", what, domain.ErrInvalidResponse, err)
		}
		return fmt.Errorf("%s: request failed: %w", what, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	if rl := InterpretRateLimit(resp, g.authenticated, g.now()); rl != nil {
		return rl
	}
	return &domain.UpstreamError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Message:    message,
	}
}

func isDecodeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	return errors.As(err, &typeErr) || errors.As(err, &syntaxErr)
}
