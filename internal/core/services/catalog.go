package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
	"github.com/custodia-labs/orgdex/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.Catalog = (*CatalogService)(nil)

// CatalogService serves reads and tag writes against the project store.
// All call sites depend on the ProjectStore interface only; which
// backend sits behind it was decided once at startup.
type CatalogService struct {
	store driven.ProjectStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store driven.ProjectStore) *CatalogService {
	return &CatalogService{store: store}
}

// List returns projects matching the query.
func (c *CatalogService) List(ctx context.Context, query domain.ListQuery) ([]domain.Project, error) {
	if query.Offset < 0 || query.Limit < 0 {
		return nil, fmt.Errorf("%w: negative offset or limit", domain.ErrInvalidInput)
	}
	return c.store.List(ctx, query)
}

// Get retrieves one project by ID.
func (c *CatalogService) Get(ctx context.Context, id string) (*domain.Project, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrInvalidInput)
	}
	return c.store.Get(ctx, id)
}

// UpdateTags merges a partial tag patch into a project's tags. The
// store is never touched for an invalid patch.
func (c *CatalogService) UpdateTags(ctx context.Context, id string, patch domain.TagPatch) (*domain.Project, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrInvalidInput)
	}
	return c.store.UpdateTags(ctx, id, patch)
}

// Stats aggregates counts over the full project set.
func (c *CatalogService) Stats(ctx context.Context) (*domain.Stats, error) {
	return c.store.Stats(ctx)
}
