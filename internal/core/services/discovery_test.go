package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/orgdex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/ports/driving"
)

// fakeSource is a scriptable RepoSource.
type fakeSource struct {
	repos   []domain.Project
	listErr error

	// enrichErr fails enrichment outright for the given project ID.
	enrichErr map[string]error

	// failRun simulates a failed CI-run sub-fetch for the given ID:
	// the project still enriches, with LastRun resolved to nil.
	failRun map[string]bool
}

func (f *fakeSource) ListRepos(_ context.Context, _ string) ([]domain.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	repos := make([]domain.Project, len(f.repos))
	copy(repos, f.repos)
	for i := range repos {
		repos[i].DiscoveredAt = time.Now().UTC()
	}
	return repos, nil
}

func (f *fakeSource) Enrich(_ context.Context, project *domain.Project) error {
	if err := f.enrichErr[project.ID]; err != nil {
		return err
	}
	project.Branches = []domain.Branch{{Name: "main", IsDefault: true, CommitSHA: "abc"}}
	project.Commits = []domain.Commit{{SHA: "abc", Message: "tick"}}
	project.Languages = map[string]int{"Go": 100}
	if !f.failRun[project.ID] {
		project.LastRun = &domain.ActionsRun{ID: 1, Name: "CI", Status: "completed"}
	}
	project.EnrichedAt = time.Now().UTC()
	return nil
}

func strPtr(s string) *string { return &s }

func TestDiscoveryOrchestrator_Run(t *testing.T) {
	t.Run("enriches and stores all listed repos", func(t *testing.T) {
		store := memory.NewProjectStore()
		source := &fakeSource{repos: []domain.Project{
			{ID: "alpha", FullName: "acme/alpha", UpdatedAt: time.Now()},
			{ID: "beta", FullName: "acme/beta", UpdatedAt: time.Now().Add(-time.Hour)},
		}}

		orch := NewDiscoveryOrchestrator(source, store, "acme", 4)
		result, err := orch.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Count)
		assert.Equal(t, driving.ModeLive, result.Mode)

		count, err := store.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("listing failure aborts with nothing written", func(t *testing.T) {
		store := memory.NewProjectStore()
		source := &fakeSource{listErr: errors.New("bad credentials")}

		orch := NewDiscoveryOrchestrator(source, store, "acme", 4)
		_, err := orch.Run(context.Background())

		require.Error(t, err)
		count, countErr := store.Count(context.Background())
		require.NoError(t, countErr)
		assert.Equal(t, 0, count)
	})

	t.Run("hard enrichment failure drops only that repo", func(t *testing.T) {
		store := memory.NewProjectStore()
		source := &fakeSource{
			repos: []domain.Project{
				{ID: "alpha", FullName: "acme/alpha"},
				{ID: "vanished", FullName: "acme/vanished"},
			},
			enrichErr: map[string]error{"vanished": errors.New("repository not found")},
		}

		orch := NewDiscoveryOrchestrator(source, store, "acme", 4)
		result, err := orch.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)

		_, err = store.Get(context.Background(), "vanished")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("failed run sub-fetch yields project with nil run", func(t *testing.T) {
		store := memory.NewProjectStore()
		source := &fakeSource{
			repos: []domain.Project{
				{ID: "with-ci", FullName: "acme/with-ci"},
				{ID: "without-ci", FullName: "acme/without-ci"},
			},
			failRun: map[string]bool{"without-ci": true},
		}

		orch := NewDiscoveryOrchestrator(source, store, "acme", 2)
		result, err := orch.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Count)

		first, err := store.Get(context.Background(), "with-ci")
		require.NoError(t, err)
		assert.NotNil(t, first.LastRun)

		second, err := store.Get(context.Background(), "without-ci")
		require.NoError(t, err)
		assert.Nil(t, second.LastRun)
	})

	t.Run("re-running is idempotent except bookkeeping timestamps", func(t *testing.T) {
		store := memory.NewProjectStore()
		source := &fakeSource{repos: []domain.Project{
			{ID: "alpha", FullName: "acme/alpha", UpdatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "beta", FullName: "acme/beta", UpdatedAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
		}}
		orch := NewDiscoveryOrchestrator(source, store, "acme", 4)
		ctx := context.Background()

		_, err := orch.Run(ctx)
		require.NoError(t, err)
		first, err := store.List(ctx, domain.ListQuery{})
		require.NoError(t, err)

		_, err = orch.Run(ctx)
		require.NoError(t, err)
		second, err := store.List(ctx, domain.ListQuery{})
		require.NoError(t, err)

		require.Len(t, second, len(first))
		normalize := func(projects []domain.Project) []domain.Project {
			out := make([]domain.Project, len(projects))
			copy(out, projects)
			sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
			for i := range out {
				out[i].DiscoveredAt = time.Time{}
				out[i].EnrichedAt = time.Time{}
			}
			return out
		}
		assert.Equal(t, normalize(first), normalize(second))
	})

	t.Run("re-discovery never reverts tags", func(t *testing.T) {
		store := memory.NewProjectStore()
		source := &fakeSource{repos: []domain.Project{{ID: "alpha", FullName: "acme/alpha"}}}
		orch := NewDiscoveryOrchestrator(source, store, "acme", 1)
		ctx := context.Background()

		_, err := orch.Run(ctx)
		require.NoError(t, err)

		_, err = store.UpdateTags(ctx, "alpha", domain.TagPatch{
			Category: strPtr("infra"),
			Custom:   []string{"gpu-team"},
		})
		require.NoError(t, err)

		_, err = orch.Run(ctx)
		require.NoError(t, err)

		saved, err := store.Get(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "infra", saved.Tags.Category)
		assert.Equal(t, []string{"gpu-team"}, saved.Tags.Custom)
	})

	t.Run("nil source runs demo mode", func(t *testing.T) {
		store := memory.NewProjectStore()
		orch := NewDiscoveryOrchestrator(nil, store, "", 0)

		result, err := orch.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, driving.ModeDemo, result.Mode)
		assert.Equal(t, len(DemoProjects()), result.Count)

		count, err := store.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, result.Count, count)
	})
}
