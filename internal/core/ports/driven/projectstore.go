package driven

import (
	"context"

	"github.com/custodia-labs/orgdex/internal/core/domain"
)

// ProjectStore persists the project catalog. Two interchangeable
// implementations exist (SQLite-backed and in-memory); both expose
// identical semantics and are selected once at process start.
type ProjectStore interface {
	// Upsert stores or updates a project. When a project with the same
	// ID already exists, all non-tag fields are replaced and the stored
	// tags are preserved; tags supplied by the caller apply only when
	// the project is first created.
	Upsert(ctx context.Context, project domain.Project) error

	// UpsertMany applies Upsert semantics to a batch. Backends with a
	// bounded write size commit independent chunks; a failing chunk does
	// not roll back previously committed ones.
	UpsertMany(ctx context.Context, projects []domain.Project) error

	// Get retrieves a project by ID. Returns domain.ErrNotFound when the
	// ID is unknown.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// List returns projects matching the query, sorted by UpdatedAt
	// descending, paginated by the query's offset and limit.
	List(ctx context.Context, query domain.ListQuery) ([]domain.Project, error)

	// UpdateTags merges a partial tag patch into an existing project's
	// tags and returns the updated project. Returns domain.ErrNotFound
	// when the ID is unknown.
	UpdateTags(ctx context.Context, id string, patch domain.TagPatch) (*domain.Project, error)

	// Stats aggregates counts over the full, non-paginated project set.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Count returns the number of stored projects.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
