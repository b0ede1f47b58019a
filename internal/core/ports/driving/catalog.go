package driving

import (
	"context"

	"github.com/custodia-labs/orgdex/internal/core/domain"
)

// Catalog serves reads and tag writes against the project store.
type Catalog interface {
	// List returns projects matching the query, sorted by UpdatedAt
	// descending.
	List(ctx context.Context, query domain.ListQuery) ([]domain.Project, error)

	// Get retrieves one project by ID; domain.ErrNotFound when unknown.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// UpdateTags merges a partial tag patch into a project's tags and
	// returns the updated project; domain.ErrNotFound when unknown.
	UpdateTags(ctx context.Context, id string, patch domain.TagPatch) (*domain.Project, error)

	// Stats aggregates counts over the full project set.
	Stats(ctx context.Context) (*domain.Stats, error)
}
