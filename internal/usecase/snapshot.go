package usecase

import (
	"context"

	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/naka-gawa/github-snapshot/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options tunes a Snapshotter.
type Options struct {
	ReadmeLimit   int
	ExcerptLimit  int
	Contributions bool
}

// DefaultOptions returns the budgets used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ReadmeLimit:   DefaultReadmeLimit,
		ExcerptLimit:  DefaultExcerptLimit,
		Contributions: true,
	}
}

// Snapshotter is the use case for building an AnalysisSnapshot of one user.
// It orchestrates the loader, the aggregator, the deep dive and the synthesizer.
type Snapshotter struct {
	fetcher    gateway.Fetcher
	logger     *logrus.Logger
	aggregator *Aggregator
	diver      *DeepDiver
	synth      Synthesizer
}

// NewSnapshotter creates a new Snapshotter instance.
func NewSnapshotter(fetcher gateway.Fetcher, logger *logrus.Logger, opts Options) *Snapshotter {
	return &Snapshotter{
		fetcher:    fetcher,
		logger:     logger,
		aggregator: NewAggregator(fetcher, logger, opts.Contributions),
		diver:      NewDeepDiver(fetcher, logger, opts.ReadmeLimit),
		synth:      Synthesizer{ExcerptLimit: opts.ExcerptLimit},
	}
}

// GetSnapshot builds the complete snapshot for username.
// A failure of the profile or repository listing aborts the request; nothing is retried.
// Failures in the deep dive and the optional calls only degrade the result.
func (s *Snapshotter) GetSnapshot(ctx context.Context, username string) (*domain.Snapshot, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	log := s.logger.WithField("username", username)
	log.Info("Building snapshot")

	profile, repos, err := s.Load(ctx, username)
	if err != nil {
		log.WithError(err).Warn("Snapshot aborted")
		return nil, err
	}
	top := domain.SelectDeepDive(repos, MaxDeepDiveRepos)
	log.WithFields(logrus.Fields{"listed": len(repos), "deep_dive": len(top)}).Debug("Repositories loaded")

	// The aggregate and the deep dive share no state, so they overlap.
	var (
		agg     domain.ActivityAggregate
		details []domain.RepositoryDetail
		eg      errgroup.Group
	)
	eg.Go(func() error {
		agg = s.aggregator.Aggregate(ctx, repos, username)
		return nil
	})
	eg.Go(func() error {
		details = s.diver.DeepDive(ctx, top, username)
		return nil
	})
	_ = eg.Wait()

	snapshot := s.synth.Synthesize(*profile, agg, details)
	log.WithField("repositories", len(snapshot.Repositories)).Info("Snapshot ready")
	return snapshot, nil
}

// Load fetches the profile and then the repository listing.
// The listing is not requested when the profile call fails.
func (s *Snapshotter) Load(ctx context.Context, username string) (*domain.Profile, []domain.RepositorySummary, error) {
	profile, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	repos, err := s.fetcher.FetchRepositories(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	return profile, repos, nil
}
