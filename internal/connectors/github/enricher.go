package github

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/logger"
)

// subResult tags one sub-fetch outcome so the failure reason stays
// available for logging instead of being silently discarded.
type subResult struct {
	name string
	err  error
}

// Enrich fills the project's enrichment snapshots with five concurrent
// sub-fetches: branches, open pull requests, recent commits, latest CI
// run and language byte counts. Each sub-fetch is evaluated
// independently under its own deadline; on failure the field resolves to
// its zero value. Only a repository-level failure (the repository is
// gone) returns an error, which drops the project from the cycle.
func (s *Source) Enrich(ctx context.Context, project *domain.Project) error {
	owner, repo, err := splitFullName(project.FullName)
	if err != nil {
		return err
	}

	var (
		branches  []domain.Branch
		pulls     []domain.PullRequest
		commits   []domain.Commit
		lastRun   *domain.ActionsRun
		languages map[string]int
	)

	fetches := []struct {
		name string
		run  func(context.Context) error
	}{
		{"branches", func(ctx context.Context) error {
			var fetchErr error
			branches, fetchErr = s.fetchBranches(ctx, owner, repo, project.DefaultBranch)
			return fetchErr
		}},
		{"pull requests", func(ctx context.Context) error {
			var fetchErr error
			pulls, fetchErr = s.fetchOpenPullRequests(ctx, owner, repo)
			return fetchErr
		}},
		{"commits", func(ctx context.Context) error {
			var fetchErr error
			commits, fetchErr = s.fetchRecentCommits(ctx, owner, repo, project.DefaultBranch)
			return fetchErr
		}},
		{"latest run", func(ctx context.Context) error {
			var fetchErr error
			lastRun, fetchErr = s.fetchLatestRun(ctx, owner, repo)
			return fetchErr
		}},
		{"languages", func(ctx context.Context) error {
			var fetchErr error
			languages, fetchErr = s.fetchLanguages(ctx, owner, repo)
			return fetchErr
		}},
	}

	results := make(chan subResult, len(fetches))
	var wg sync.WaitGroup
	for _, fetch := range fetches {
		wg.Add(1)
		go func(name string, run func(context.Context) error) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()
			results <- subResult{name: name, err: run(fetchCtx)}
		}(fetch.name, fetch.run)
	}
	wg.Wait()
	close(results)

	for result := range results {
		if result.err == nil {
			continue
		}
		// A vanished repository fails the enrichment outright.
		// Not-found on the runs endpoint never reaches here: Actions
		// being disabled resolves to "no run" inside fetchLatestRun.
		if IsNotFound(result.err) {
			return fmt.Errorf("%w: %s", ErrRepoNotFound, project.FullName)
		}
		logger.Warn("github: %s fetch failed for %s, using zero value: %v",
			result.name, project.FullName, result.err)
	}

	project.Branches = branches
	project.PullRequests = pulls
	project.Commits = commits
	project.LastRun = lastRun
	project.Languages = languages
	project.EnrichedAt = time.Now().UTC()

	return nil
}

func splitFullName(fullName string) (owner, repo string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("github: malformed full name %q", fullName)
	}
	return parts[0], parts[1], nil
}

// fetchBranches lists branches, bounded to one page. The listing call
// carries no commit dates, so CommitDate stays empty.
func (s *Source) fetchBranches(ctx context.Context, owner, repo, defaultBranch string) ([]domain.Branch, error) {
	opts := &gh.BranchListOptions{
		ListOptions: gh.ListOptions{PerPage: EnrichPageSize},
	}

	var ghBranches []*gh.Branch
	err := s.client.guarded(ctx, "list branches", func(ctx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		ghBranches, resp, callErr = s.client.gh.Repositories.ListBranches(ctx, owner, repo, opts)
		return resp, callErr
	})
	if err != nil {
		return nil, err
	}

	branches := make([]domain.Branch, 0, len(ghBranches))
	for _, b := range ghBranches {
		branches = append(branches, domain.Branch{
			Name:      b.GetName(),
			IsDefault: b.GetName() == defaultBranch,
			CommitSHA: b.GetCommit().GetSHA(),
		})
	}
	return branches, nil
}

// fetchOpenPullRequests lists open pull requests, most recently updated
// first, bounded to one page.
func (s *Source) fetchOpenPullRequests(ctx context.Context, owner, repo string) ([]domain.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: EnrichPageSize},
	}

	var ghPulls []*gh.PullRequest
	err := s.client.guarded(ctx, "list pull requests", func(ctx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		ghPulls, resp, callErr = s.client.gh.PullRequests.List(ctx, owner, repo, opts)
		return resp, callErr
	})
	if err != nil {
		return nil, err
	}

	pulls := make([]domain.PullRequest, 0, len(ghPulls))
	for _, pr := range ghPulls {
		labels := make([]string, len(pr.Labels))
		for i, l := range pr.Labels {
			labels[i] = l.GetName()
		}
		pulls = append(pulls, domain.PullRequest{
			Number:    pr.GetNumber(),
			Title:     pr.GetTitle(),
			State:     pr.GetState(),
			Author:    pr.GetUser().GetLogin(),
			Draft:     pr.GetDraft(),
			CreatedAt: pr.GetCreatedAt().Time,
			UpdatedAt: pr.GetUpdatedAt().Time,
			URL:       pr.GetHTMLURL(),
			Labels:    labels,
		})
	}
	return pulls, nil
}

// fetchRecentCommits lists commits on the default branch within the
// recent-history window, bounded to one page.
func (s *Source) fetchRecentCommits(ctx context.Context, owner, repo, defaultBranch string) ([]domain.Commit, error) {
	opts := &gh.CommitsListOptions{
		SHA:         defaultBranch,
		Since:       time.Now().Add(-CommitWindow),
		ListOptions: gh.ListOptions{PerPage: EnrichPageSize},
	}

	var ghCommits []*gh.RepositoryCommit
	err := s.client.guarded(ctx, "list commits", func(ctx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		ghCommits, resp, callErr = s.client.gh.Repositories.ListCommits(ctx, owner, repo, opts)
		return resp, callErr
	})
	if err != nil {
		return nil, err
	}

	commits := make([]domain.Commit, 0, len(ghCommits))
	for _, c := range ghCommits {
		commits = append(commits, domain.Commit{
			SHA:     c.GetSHA(),
			Message: c.GetCommit().GetMessage(),
			Author:  c.GetCommit().GetAuthor().GetName(),
			Date:    c.GetCommit().GetAuthor().GetDate().Time,
			URL:     c.GetHTMLURL(),
		})
	}
	return commits, nil
}

// fetchLatestRun returns the single most recent workflow run, or nil
// when the repository has no runs at all.
func (s *Source) fetchLatestRun(ctx context.Context, owner, repo string) (*domain.ActionsRun, error) {
	opts := &gh.ListWorkflowRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 1},
	}

	var runs *gh.WorkflowRuns
	err := s.client.guarded(ctx, "list workflow runs", func(ctx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		runs, resp, callErr = s.client.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
		return resp, callErr
	})
	if err != nil {
		// Actions disabled resolves to "no run", not an error.
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if runs == nil || len(runs.WorkflowRuns) == 0 {
		return nil, nil
	}

	run := runs.WorkflowRuns[0]
	return &domain.ActionsRun{
		ID:         run.GetID(),
		Name:       run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.GetConclusion(),
		URL:        run.GetHTMLURL(),
		CreatedAt:  run.GetCreatedAt().Time,
	}, nil
}

// fetchLanguages returns the per-language byte counts.
func (s *Source) fetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	var languages map[string]int
	err := s.client.guarded(ctx, "list languages", func(ctx context.Context) (*gh.Response, error) {
		var resp *gh.Response
		var callErr error
		languages, resp, callErr = s.client.gh.Repositories.ListLanguages(ctx, owner, repo)
		return resp, callErr
	})
	if err != nil {
		return nil, err
	}
	return languages, nil
}
