package domain

import "time"

// Project represents one organization repository's current known state.
// The ID is the repository slug and acts as the natural key: discovery
// cycles for the same slug replace every field except Tags.
type Project struct {
	// ID is the repository slug, unique and stable across discovery cycles.
	ID string

	// FullName is the owner-qualified name (e.g. "acme/webgl-viewer").
	FullName string

	// Description is the upstream repository description.
	Description string

	// URL is the repository's HTML URL.
	URL string

	// Homepage is the optional project homepage.
	Homepage string

	// Language is the primary language as reported upstream.
	Language string

	// Languages maps language name to byte count.
	Languages map[string]int

	// Topics is the upstream topic list.
	Topics []string

	// Visibility is "public" or "private".
	Visibility string

	// DefaultBranch is the repository's default branch name.
	DefaultBranch string

	// Upstream timestamps, supplied by the hosting API.
	CreatedAt time.Time
	UpdatedAt time.Time
	PushedAt  time.Time

	// Local bookkeeping timestamps.
	DiscoveredAt time.Time
	EnrichedAt   time.Time

	// Point-in-time counters.
	Stars      int
	Forks      int
	OpenIssues int

	// Enrichment snapshots. Each is fully replaced on every discovery
	// cycle, never merged element-by-element.
	Branches     []Branch
	PullRequests []PullRequest
	Commits      []Commit

	// LastRun is the most recent CI run, nil when the repository has no
	// workflow runs at all.
	LastRun *ActionsRun

	// Tags is the only part of a Project mutated outside discovery.
	Tags Tags
}

// Branch is one repository branch. CommitDate may be empty: the upstream
// branch-listing call does not return commit dates.
type Branch struct {
	Name       string
	IsDefault  bool
	CommitSHA  string
	CommitDate string
}

// PullRequest is one open change-request. Number is upstream-assigned and
// unique within a repository.
type PullRequest struct {
	Number    int
	Title     string
	State     string
	Author    string
	Draft     bool
	CreatedAt time.Time
	UpdatedAt time.Time
	URL       string
	Labels    []string
}

// Commit is one commit in the recent-history window.
type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
	URL     string
}

// ActionsRun summarises the single most recent CI run.
type ActionsRun struct {
	ID         int64
	Name       string
	Status     string
	Conclusion string
	URL        string
	CreatedAt  time.Time
}
