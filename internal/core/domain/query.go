package domain

import (
	"sort"
	"strings"
)

// DefaultListLimit is applied when a query does not specify a limit.
const DefaultListLimit = 100

// Sentinel labels used by Stats for projects with unset tag fields.
const (
	StatsUncategorized = "uncategorized"
	StatsUntriaged     = "untriaged"
)

// ListQuery selects and pages through projects. Category, Status and
// Group are exact-match equality filters on the corresponding tag field
// and are ANDed when supplied. Search is a case-insensitive substring
// match (see Project.MatchesSearch). Results are always sorted by
// UpdatedAt descending after filtering, before the Offset/Limit slice.
type ListQuery struct {
	Category string
	Status   string
	Group    string
	Search   string
	Offset   int
	Limit    int
}

// EffectiveLimit returns the limit to apply, falling back to the default.
func (q ListQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultListLimit
	}
	return q.Limit
}

// MatchesTags reports whether the project satisfies the query's tag
// equality filters.
func (q ListQuery) MatchesTags(p *Project) bool {
	if q.Category != "" && p.Tags.Category != q.Category {
		return false
	}
	if q.Status != "" && p.Tags.Status != q.Status {
		return false
	}
	if q.Group != "" && p.Tags.Group != q.Group {
		return false
	}
	return true
}

// MatchesSearch reports whether the lowercased query is a substring of
// the project's searchable text: id, full name, description, primary
// language, topics, tag category/status/group and custom labels.
func (p *Project) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	parts := []string{
		p.ID,
		p.FullName,
		p.Description,
		p.Language,
		strings.Join(p.Topics, " "),
		p.Tags.Category,
		p.Tags.Status,
		p.Tags.Group,
		strings.Join(p.Tags.Custom, " "),
	}
	haystack := strings.ToLower(strings.Join(parts, " "))
	return strings.Contains(haystack, strings.ToLower(query))
}

// SortByUpdatedDesc orders projects newest-updated first. Both store
// backends apply this before pagination so callers see one ordering.
func SortByUpdatedDesc(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
}

// Page slices a sorted project list by offset and limit.
func Page(projects []Project, offset, limit int) []Project {
	if offset >= len(projects) {
		return []Project{}
	}
	end := offset + limit
	if end > len(projects) {
		end = len(projects)
	}
	return projects[offset:end]
}

// Stats aggregates tag and enrichment counts over the full project set.
type Stats struct {
	Total        int
	ByCategory   map[string]int
	ByStatus     map[string]int
	OpenPRs      int
	RecentCommit int
}

// ComputeStats aggregates counts in a single pass. Unset category and
// status values are counted under the sentinel labels.
func ComputeStats(projects []Project) Stats {
	stats := Stats{
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for i := range projects {
		p := &projects[i]
		stats.Total++

		category := p.Tags.Category
		if category == "" {
			category = StatsUncategorized
		}
		stats.ByCategory[category]++

		status := p.Tags.Status
		if status == "" {
			status = StatsUntriaged
		}
		stats.ByStatus[status]++

		stats.OpenPRs += len(p.PullRequests)
		stats.RecentCommit += len(p.Commits)
	}
	return stats
}
