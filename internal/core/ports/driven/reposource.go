package driven

import (
	"context"

	"github.com/custodia-labs/orgdex/internal/core/domain"
)

// RepoSource lists and enriches an organization's repositories from the
// upstream hosting API. The GitHub connector is the live implementation;
// tests substitute fakes.
type RepoSource interface {
	// ListRepos returns every repository of the organization with its
	// listing metadata populated (no enrichment snapshots), newest
	// updated first. A failure here fails the whole listing.
	ListRepos(ctx context.Context, org string) ([]domain.Project, error)

	// Enrich fills the project's enrichment snapshots (branches, open
	// pull requests, recent commits, latest CI run, languages) with five
	// concurrent sub-fetches. A failed sub-fetch resolves that field to
	// its zero value; only a repository-level failure returns an error.
	Enrich(ctx context.Context, project *domain.Project) error
}
