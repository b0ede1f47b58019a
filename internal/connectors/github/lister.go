package github

import (
	"context"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
	"github.com/custodia-labs/orgdex/internal/logger"
)

const (
	// ListPageSize is the page size for the organization listing call.
	ListPageSize = 100

	// EnrichPageSize bounds each enrichment sub-fetch.
	EnrichPageSize = 30

	// CommitWindow is the recent-commit history window.
	CommitWindow = 30 * 24 * time.Hour

	// FetchTimeout is the per-sub-fetch deadline. A timed-out sub-fetch
	// resolves to its zero value like any other sub-fetch failure.
	FetchTimeout = 20 * time.Second
)

// Ensure Source implements the interface.
var _ driven.RepoSource = (*Source)(nil)

// Source lists and enriches repositories from the GitHub API.
type Source struct {
	client       *Client
	fetchTimeout time.Duration
}

// NewSource creates a repository source backed by the given client.
func NewSource(client *Client) *Source {
	return &Source{
		client:       client,
		fetchTimeout: FetchTimeout,
	}
}

// ListRepos returns every repository owned by the organization, newest
// updated first, paging transparently until the API reports no further
// pages. The whole listing is a unit: a page failure fails the call.
func (s *Source) ListRepos(ctx context.Context, org string) ([]domain.Project, error) {
	opts := &gh.RepositoryListByOrgOptions{
		Type:        "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: ListPageSize},
	}

	var projects []domain.Project
	now := time.Now().UTC()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var repos []*gh.Repository
		err := s.client.guarded(ctx, "list org repos", func(ctx context.Context) (*gh.Response, error) {
			var resp *gh.Response
			var callErr error
			repos, resp, callErr = s.client.gh.Repositories.ListByOrg(ctx, org, opts)
			if resp != nil && callErr == nil {
				opts.Page = resp.NextPage
			}
			return resp, callErr
		})
		if err != nil {
			return nil, err
		}

		for _, repo := range repos {
			projects = append(projects, projectFromRepo(repo, now))
		}

		if opts.Page == 0 {
			break
		}
	}

	logger.Debug("github: listed %d repos for org %s", len(projects), org)
	return projects, nil
}

// projectFromRepo maps listing metadata onto a Project. Enrichment
// snapshots stay empty until Enrich runs.
func projectFromRepo(repo *gh.Repository, discoveredAt time.Time) domain.Project {
	return domain.Project{
		ID:            repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		URL:           repo.GetHTMLURL(),
		Homepage:      repo.GetHomepage(),
		Language:      repo.GetLanguage(),
		Topics:        repo.Topics,
		Visibility:    repo.GetVisibility(),
		DefaultBranch: repo.GetDefaultBranch(),
		CreatedAt:     repo.GetCreatedAt().Time,
		UpdatedAt:     repo.GetUpdatedAt().Time,
		PushedAt:      repo.GetPushedAt().Time,
		DiscoveredAt:  discoveredAt,
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
	}
}
