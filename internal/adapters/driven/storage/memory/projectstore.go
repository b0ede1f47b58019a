// Package memory provides the in-process implementation of the project
// store. It backs demo mode and the permanent fallback taken when the
// persistent backend cannot be opened at startup.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
)

// Ensure ProjectStore implements the interface.
var _ driven.ProjectStore = (*ProjectStore)(nil)

// ProjectStore is an in-memory implementation of driven.ProjectStore.
// A single shared table guarded by a mutex; all mutations serialize.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

// NewProjectStore creates a new in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		projects: make(map[string]domain.Project),
	}
}

// Upsert stores or updates a project. Updates replace every non-tag
// field and keep the stored tags; supplied tags apply only on creation.
func (s *ProjectStore) Upsert(_ context.Context, project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(project)
	return nil
}

// UpsertMany applies Upsert semantics to a batch.
func (s *ProjectStore) UpsertMany(_ context.Context, projects []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, project := range projects {
		s.upsertLocked(project)
	}
	return nil
}

func (s *ProjectStore) upsertLocked(project domain.Project) {
	if existing, ok := s.projects[project.ID]; ok {
		project.Tags = existing.Tags
	}
	s.projects[project.ID] = project
}

// Get retrieves a project by ID.
func (s *ProjectStore) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

// List returns projects matching the query, sorted by UpdatedAt
// descending, then sliced by offset and limit.
func (s *ProjectStore) List(_ context.Context, query domain.ListQuery) ([]domain.Project, error) {
	s.mu.RLock()
	matched := make([]domain.Project, 0, len(s.projects))
	for id := range s.projects {
		project := s.projects[id]
		if !query.MatchesTags(&project) {
			continue
		}
		if !project.MatchesSearch(query.Search) {
			continue
		}
		matched = append(matched, project)
	}
	s.mu.RUnlock()

	domain.SortByUpdatedDesc(matched)
	return domain.Page(matched, query.Offset, query.EffectiveLimit()), nil
}

// UpdateTags merges a partial tag patch into an existing project.
func (s *ProjectStore) UpdateTags(_ context.Context, id string, patch domain.TagPatch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	project.Tags = project.Tags.Apply(patch)
	s.projects[id] = project
	return &project, nil
}

// Stats aggregates counts over the full project set.
func (s *ProjectStore) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	projects := make([]domain.Project, 0, len(s.projects))
	for id := range s.projects {
		projects = append(projects, s.projects[id])
	}
	s.mu.RUnlock()

	stats := domain.ComputeStats(projects)
	return &stats, nil
}

// Count returns the number of stored projects.
func (s *ProjectStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects), nil
}

// Close is a no-op for the in-memory store.
func (s *ProjectStore) Close() error {
	return nil
}
