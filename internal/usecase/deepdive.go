package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/naka-gawa/github-snapshot/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MaxDeepDiveRepos caps how many original repositories get README and commit retrieval.
const MaxDeepDiveRepos = 10

// DeepDiver fetches README and recent commits for a set of repositories.
//
// Failures are recovered at two levels. Each sub-fetch absorbs its own errors into a
// sentinel (NoReadme, or no commits) and leaves the other sub-fetch alone. The repository
// is reported with domain.UnavailableDetail only when both sub-fetches fail without a
// GitHub answer (transport or decoding failures), or when a task panics.
type DeepDiver struct {
	fetcher     gateway.Fetcher
	logger      *logrus.Logger
	readmeLimit int
}

// NewDeepDiver creates a DeepDiver. A non-positive readmeLimit means DefaultReadmeLimit.
func NewDeepDiver(fetcher gateway.Fetcher, logger *logrus.Logger, readmeLimit int) *DeepDiver {
	if readmeLimit <= 0 {
		readmeLimit = DefaultReadmeLimit
	}
	return &DeepDiver{
		fetcher:     fetcher,
		logger:      logger,
		readmeLimit: readmeLimit,
	}
}

// DeepDive returns exactly one detail per input repository, in input order.
// All repositories are inspected concurrently; each writes only to its own slot.
func (d *DeepDiver) DeepDive(ctx context.Context, repos []domain.RepositorySummary, owner string) []domain.RepositoryDetail {
	details := make([]domain.RepositoryDetail, len(repos))

	var eg errgroup.Group
	for i, repo := range repos {
		eg.Go(func() error {
			details[i] = d.inspect(ctx, owner, repo)
			return nil
		})
	}
	// Tasks report failure through their detail, never through the group.
	_ = eg.Wait()

	d.logger.WithFields(logrus.Fields{"owner": owner, "repos": len(details)}).Debug("Deep dive complete")
	return details
}

// inspect is the per-repository guard.
func (d *DeepDiver) inspect(ctx context.Context, owner string, repo domain.RepositorySummary) domain.RepositoryDetail {
	log := d.logger.WithFields(logrus.Fields{"owner": owner, "repo": repo.Name})

	var (
		readme               string
		commits              []domain.CommitRecord
		readmeErr, commitErr error
	)
	err := shield(func() error {
		var eg errgroup.Group
		eg.Go(func() error {
			return shield(func() error {
				readme, readmeErr = d.readme(ctx, owner, repo.Name, log)
				return nil
			})
		})
		eg.Go(func() error {
			return shield(func() error {
				commits, commitErr = d.commits(ctx, owner, repo.Name, log)
				return nil
			})
		})
		return eg.Wait()
	})
	if err == nil && readmeErr != nil && commitErr != nil {
		err = errors.Join(readmeErr, commitErr)
	}
	if err != nil {
		log.WithError(err).Warn("Could not fetch repository details")
		return domain.UnavailableDetail(repo)
	}

	return domain.RepositoryDetail{
		RepositorySummary: repo,
		Readme:            readme,
		Commits:           commits,
	}
}

// readme is the README sub-fetch guard. It always returns usable text; the error is
// non-nil only when GitHub could not be reached or answered with an unreadable body.
func (d *DeepDiver) readme(ctx context.Context, owner, name string, log *logrus.Entry) (string, error) {
	text, err := d.fetcher.FetchReadme(ctx, owner, name)
	if err != nil {
		log.WithError(err).Warn("README unavailable")
		if domain.IsResponseError(err) {
			return domain.NoReadme, nil
		}
		return domain.NoReadme, err
	}
	return truncate(text, d.readmeLimit), nil
}

// commits is the commit-history sub-fetch guard, with the same contract as readme.
func (d *DeepDiver) commits(ctx context.Context, owner, name string, log *logrus.Entry) ([]domain.CommitRecord, error) {
	records, err := d.fetcher.FetchCommits(ctx, owner, name)
	if err != nil {
		log.WithError(err).Warn("Commit history unavailable")
		if domain.IsResponseError(err) {
			return []domain.CommitRecord{}, nil
		}
		return []domain.CommitRecord{}, err
	}
	if records == nil {
		records = []domain.CommitRecord{}
	}
	return records, nil
}

// shield runs fn and converts a panic into an error.
func shield(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
