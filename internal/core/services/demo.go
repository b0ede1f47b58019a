package services

import (
	"time"

	"github.com/custodia-labs/orgdex/internal/core/domain"
)

// demoBase anchors all demo timestamps so repeated loads are identical.
var demoBase = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

// DemoProjects returns the fixed, deterministic example set used when
// no upstream credentials are configured. The set is shaped to exercise
// the catalog surface: mixed languages, a topic-only search hit, a
// project without CI runs, and non-empty enrichment snapshots.
func DemoProjects() []domain.Project {
	return []domain.Project{
		{
			ID:            "api-gateway",
			FullName:      "demo-org/api-gateway",
			Description:   "Edge API gateway with request routing and auth",
			URL:           "https://github.com/demo-org/api-gateway",
			Language:      "Go",
			Languages:     map[string]int{"Go": 184520, "Dockerfile": 1240},
			Topics:        []string{"gateway", "infrastructure"},
			Visibility:    "private",
			DefaultBranch: "main",
			CreatedAt:     demoBase.AddDate(-2, 0, 0),
			UpdatedAt:     demoBase,
			PushedAt:      demoBase,
			DiscoveredAt:  demoBase,
			EnrichedAt:    demoBase,
			Stars:         42,
			Forks:         6,
			OpenIssues:    9,
			Branches: []domain.Branch{
				{Name: "main", IsDefault: true, CommitSHA: "f3a1c9e"},
				{Name: "feat/rate-limits", CommitSHA: "8b2d410"},
			},
			PullRequests: []domain.PullRequest{
				{
					Number: 128, Title: "Add per-route rate limits", State: "open",
					Author: "casey", Draft: false,
					CreatedAt: demoBase.AddDate(0, 0, -4), UpdatedAt: demoBase.AddDate(0, 0, -1),
					URL: "https://github.com/demo-org/api-gateway/pull/128", Labels: []string{"enhancement"},
				},
			},
			Commits: []domain.Commit{
				{SHA: "f3a1c9e", Message: "Tighten upstream timeouts", Author: "Casey Röhr", Date: demoBase.AddDate(0, 0, -2), URL: "https://github.com/demo-org/api-gateway/commit/f3a1c9e"},
				{SHA: "9d04b77", Message: "Refactor route matcher", Author: "Ana Liu", Date: demoBase.AddDate(0, 0, -9), URL: "https://github.com/demo-org/api-gateway/commit/9d04b77"},
			},
			LastRun: &domain.ActionsRun{
				ID: 5501, Name: "CI", Status: "completed", Conclusion: "success",
				URL: "https://github.com/demo-org/api-gateway/actions/runs/5501", CreatedAt: demoBase.AddDate(0, 0, -1),
			},
		},
		{
			ID:            "shader-lab",
			FullName:      "demo-org/shader-lab",
			Description:   "GPU shading experiments and rendering demos",
			URL:           "https://github.com/demo-org/shader-lab",
			Language:      "Rust",
			Languages:     map[string]int{"Rust": 96230, "GLSL": 40110},
			Topics:        []string{"webgl", "graphics", "rendering"},
			Visibility:    "public",
			DefaultBranch: "main",
			CreatedAt:     demoBase.AddDate(-1, -3, 0),
			UpdatedAt:     demoBase.Add(-26 * time.Hour),
			PushedAt:      demoBase.Add(-26 * time.Hour),
			DiscoveredAt:  demoBase,
			EnrichedAt:    demoBase,
			Stars:         311,
			Forks:         27,
			OpenIssues:    14,
			Branches: []domain.Branch{
				{Name: "main", IsDefault: true, CommitSHA: "10ee2ab"},
			},
			PullRequests: []domain.PullRequest{
				{
					Number: 77, Title: "Support compute shaders", State: "open",
					Author: "mira", Draft: true,
					CreatedAt: demoBase.AddDate(0, 0, -12), UpdatedAt: demoBase.AddDate(0, 0, -3),
					URL: "https://github.com/demo-org/shader-lab/pull/77", Labels: []string{"wip"},
				},
				{
					Number: 75, Title: "Fix HDR tonemapping", State: "open",
					Author: "jon", Draft: false,
					CreatedAt: demoBase.AddDate(0, 0, -15), UpdatedAt: demoBase.AddDate(0, 0, -6),
					URL: "https://github.com/demo-org/shader-lab/pull/75", Labels: nil,
				},
			},
			Commits: []domain.Commit{
				{SHA: "10ee2ab", Message: "Add bloom pass", Author: "Mira Sato", Date: demoBase.AddDate(0, 0, -3), URL: "https://github.com/demo-org/shader-lab/commit/10ee2ab"},
			},
			LastRun: &domain.ActionsRun{
				ID: 7710, Name: "Build", Status: "completed", Conclusion: "failure",
				URL: "https://github.com/demo-org/shader-lab/actions/runs/7710", CreatedAt: demoBase.AddDate(0, 0, -3),
			},
		},
		{
			ID:            "deploy-bot",
			FullName:      "demo-org/deploy-bot",
			Description:   "ChatOps deployment automation",
			URL:           "https://github.com/demo-org/deploy-bot",
			Language:      "TypeScript",
			Languages:     map[string]int{"TypeScript": 51200},
			Topics:        []string{"automation", "chatops"},
			Visibility:    "private",
			DefaultBranch: "master",
			CreatedAt:     demoBase.AddDate(-3, 0, 0),
			UpdatedAt:     demoBase.Add(-72 * time.Hour),
			PushedAt:      demoBase.Add(-72 * time.Hour),
			DiscoveredAt:  demoBase,
			EnrichedAt:    demoBase,
			Stars:         5,
			Forks:         1,
			OpenIssues:    2,
			Branches: []domain.Branch{
				{Name: "master", IsDefault: true, CommitSHA: "77ac301"},
			},
			Commits: []domain.Commit{
				{SHA: "77ac301", Message: "Bump slack client", Author: "Jon Park", Date: demoBase.AddDate(0, 0, -20), URL: "https://github.com/demo-org/deploy-bot/commit/77ac301"},
			},
			// Actions disabled upstream: no run at all.
			LastRun: nil,
		},
		{
			ID:            "docs-site",
			FullName:      "demo-org/docs-site",
			Description:   "Public documentation site",
			URL:           "https://github.com/demo-org/docs-site",
			Language:      "JavaScript",
			Languages:     map[string]int{"JavaScript": 30400, "CSS": 8800},
			Topics:        []string{"docs"},
			Visibility:    "public",
			DefaultBranch: "main",
			CreatedAt:     demoBase.AddDate(0, -10, 0),
			UpdatedAt:     demoBase.Add(-8 * 24 * time.Hour),
			PushedAt:      demoBase.Add(-8 * 24 * time.Hour),
			DiscoveredAt:  demoBase,
			EnrichedAt:    demoBase,
			Stars:         17,
			Forks:         3,
			OpenIssues:    0,
			Branches: []domain.Branch{
				{Name: "main", IsDefault: true, CommitSHA: "c0ffee1"},
				{Name: "gh-pages", CommitSHA: "41bada5"},
			},
			LastRun: &domain.ActionsRun{
				ID: 9012, Name: "Deploy", Status: "completed", Conclusion: "success",
				URL: "https://github.com/demo-org/docs-site/actions/runs/9012", CreatedAt: demoBase.AddDate(0, 0, -8),
			},
		},
		{
			ID:            "legacy-importer",
			FullName:      "demo-org/legacy-importer",
			Description:   "One-off data migration tooling",
			URL:           "https://github.com/demo-org/legacy-importer",
			Language:      "Python",
			Languages:     map[string]int{"Python": 22100},
			Visibility:    "private",
			DefaultBranch: "main",
			CreatedAt:     demoBase.AddDate(-4, 0, 0),
			UpdatedAt:     demoBase.AddDate(0, -6, 0),
			PushedAt:      demoBase.AddDate(0, -6, 0),
			DiscoveredAt:  demoBase,
			EnrichedAt:    demoBase,
			Stars:         0,
			Forks:         0,
			OpenIssues:    1,
			Branches: []domain.Branch{
				{Name: "main", IsDefault: true, CommitSHA: "dead123"},
			},
			LastRun: nil,
		},
	}
}
