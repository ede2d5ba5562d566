// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/naka-gawa/github-snapshot/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Aggregator rolls the repository listing and the public event feed up into an ActivityAggregate.
type Aggregator struct {
	fetcher       gateway.Fetcher
	logger        *logrus.Logger
	contributions bool
}

// NewAggregator creates a new Aggregator instance.
// When contributions is true the GraphQL contributions collection is also requested.
func NewAggregator(fetcher gateway.Fetcher, logger *logrus.Logger, contributions bool) *Aggregator {
	return &Aggregator{
		fetcher:       fetcher,
		logger:        logger,
		contributions: contributions,
	}
}

// Aggregate never fails. The event feed and contributions are decorative context:
// when either call fails its counters stay at zero.
func (a *Aggregator) Aggregate(ctx context.Context, repos []domain.RepositorySummary, username string) domain.ActivityAggregate {
	log := a.logger.WithField("username", username)
	agg := RollUp(repos)

	events, err := a.fetcher.FetchPublicEvents(ctx, username)
	if err != nil {
		log.WithError(err).Warn("Could not fetch public events; event counters default to zero")
	} else {
		CountEvents(&agg, events)
	}

	if a.contributions {
		totals, err := a.fetcher.FetchContributions(ctx, username)
		if err != nil {
			log.WithError(err).Warn("Could not fetch contributions collection")
		} else {
			agg.Contributions = totals
		}
	}

	log.WithFields(logrus.Fields{
		"languages": len(agg.Languages),
		"stars":     agg.TotalStars,
	}).Debug("Aggregation complete")
	return agg
}

// RollUp computes the language histogram and the community counters over every
// listed repository, forks included.
func RollUp(repos []domain.RepositorySummary) domain.ActivityAggregate {
	agg := domain.ActivityAggregate{
		ListedRepos: len(repos),
		Languages:   []domain.LanguageCount{},
	}

	position := make(map[string]int)
	starData := make(stats.Float64Data, 0, len(repos))
	for _, repo := range repos {
		agg.TotalStars += repo.Stars
		agg.TotalForks += repo.Forks
		agg.TotalWatchers += repo.Watchers
		starData = append(starData, float64(repo.Stars))

		if repo.Language == "" {
			continue
		}
		if i, ok := position[repo.Language]; ok {
			agg.Languages[i].Repos++
			continue
		}
		position[repo.Language] = len(agg.Languages)
		agg.Languages = append(agg.Languages, domain.LanguageCount{Language: repo.Language, Repos: 1})
	}

	// Stable so that equal counts keep the order in which languages were first seen.
	sort.SliceStable(agg.Languages, func(i, j int) bool {
		return agg.Languages[i].Repos > agg.Languages[j].Repos
	})

	agg.Stars = starStats(starData)
	return agg
}

func starStats(data stats.Float64Data) domain.StarStats {
	if data.Len() == 0 {
		return domain.StarStats{}
	}
	mean, _ := stats.Mean(data)
	mean, _ = stats.Round(mean, 2)
	median, _ := stats.Median(data)
	highest, _ := stats.Max(data)
	return domain.StarStats{Mean: mean, Median: median, Max: int(highest)}
}

// CountEvents adds the push, pull request and issue events to agg.
func CountEvents(agg *domain.ActivityAggregate, events []domain.ActivityEvent) {
	for _, e := range events {
		switch e.Type {
		case domain.EventPush:
			agg.RecentPushes++
		case domain.EventPullRequest:
			agg.RecentPRs++
		case domain.EventIssues:
			agg.RecentIssues++
		}
	}
}
