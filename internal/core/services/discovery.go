package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
	"github.com/custodia-labs/orgdex/internal/core/ports/driving"
	"github.com/custodia-labs/orgdex/internal/logger"
)

// DefaultWorkers is the enrichment worker pool size.
const DefaultWorkers = 10

// Ensure DiscoveryOrchestrator implements the interface.
var _ driving.Discovery = (*DiscoveryOrchestrator)(nil)

// DiscoveryOrchestrator runs full discovery cycles: one listing call,
// then one enrichment per repository drained through a bounded worker
// pool, then a single batch upsert of the assembled projects.
//
// A nil source selects demo mode: the deterministic example set is
// written through the same store path as live discovery.
type DiscoveryOrchestrator struct {
	source  driven.RepoSource
	store   driven.ProjectStore
	org     string
	workers int
}

// NewDiscoveryOrchestrator creates a discovery orchestrator. Pass a nil
// source to run in demo mode. workers <= 0 selects DefaultWorkers.
func NewDiscoveryOrchestrator(
	source driven.RepoSource,
	store driven.ProjectStore,
	org string,
	workers int,
) *DiscoveryOrchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &DiscoveryOrchestrator{
		source:  source,
		store:   store,
		org:     org,
		workers: workers,
	}
}

// Run executes one discovery cycle to completion. Re-running is always
// safe: non-tag fields of repositories still present are superseded,
// tags are never touched, and repositories that vanished upstream stay
// in the store until their next successful re-discovery.
func (o *DiscoveryOrchestrator) Run(ctx context.Context) (*driving.DiscoveryResult, error) {
	cycle := uuid.NewString()[:8]

	if o.source == nil {
		projects := DemoProjects()
		logger.Info("discovery %s: no credentials configured, loading %d demo projects", cycle, len(projects))
		if err := o.store.UpsertMany(ctx, projects); err != nil {
			return nil, fmt.Errorf("upserting demo projects: %w", err)
		}
		return &driving.DiscoveryResult{Count: len(projects), Mode: driving.ModeDemo}, nil
	}

	listed, err := o.source.ListRepos(ctx, o.org)
	if err != nil {
		// Listing is a unit: nothing is written on failure.
		return nil, fmt.Errorf("listing repos for %s: %w", o.org, err)
	}
	logger.Info("discovery %s: listed %d repos for %s", cycle, len(listed), o.org)

	projects := o.enrichAll(ctx, cycle, listed)

	if err := o.store.UpsertMany(ctx, projects); err != nil {
		return nil, fmt.Errorf("upserting projects: %w", err)
	}

	logger.Info("discovery %s: wrote %d of %d projects", cycle, len(projects), len(listed))
	return &driving.DiscoveryResult{Count: len(projects), Mode: driving.ModeLive}, nil
}

// enrichAll drains the listed repositories through the worker pool and
// collects the successfully enriched projects. Hard enrichment failures
// are logged with their reason and dropped; completion order decides
// result order, so callers rely on the store's sort instead.
func (o *DiscoveryOrchestrator) enrichAll(ctx context.Context, cycle string, listed []domain.Project) []domain.Project {
	tasks := make(chan domain.Project)
	results := make(chan domain.Project)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for project := range tasks {
				if err := o.source.Enrich(ctx, &project); err != nil {
					logger.Warn("discovery %s: dropping %s: %v", cycle, project.ID, err)
					continue
				}
				results <- project
			}
		}()
	}

	go func() {
		for _, project := range listed {
			tasks <- project
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	projects := make([]domain.Project, 0, len(listed))
	for project := range results {
		projects = append(projects, project)
	}
	return projects
}
