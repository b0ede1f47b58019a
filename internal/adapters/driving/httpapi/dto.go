package httpapi

import (
	"time"

	"github.com/custodia-labs/orgdex/internal/core/domain"
)

// projectResponse is the external project record. Field names and
// derivations (displayName, private, protected/default branch flags,
// lastWorkflowRun) are part of the API contract.
type projectResponse struct {
	ID            string            `json:"id"`
	DisplayName   string            `json:"displayName"`
	FullName      string            `json:"fullName"`
	Description   string            `json:"description"`
	URL           string            `json:"url"`
	Homepage      string            `json:"homepage"`
	Language      string            `json:"language"`
	Languages     map[string]int    `json:"languages"`
	Topics        []string          `json:"topics"`
	Private       bool              `json:"private"`
	Visibility    string            `json:"visibility"`
	DefaultBranch string            `json:"defaultBranch"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	PushedAt      time.Time         `json:"pushedAt"`
	DiscoveredAt  time.Time         `json:"discoveredAt"`
	EnrichedAt    time.Time         `json:"enrichedAt"`
	Stars         int               `json:"stars"`
	Forks         int               `json:"forks"`
	OpenIssues    int               `json:"openIssues"`
	Branches      []branchResponse  `json:"branches"`
	PullRequests  []pullResponse    `json:"pullRequests"`
	Commits       []commitResponse  `json:"commits"`
	LastRun       *workflowResponse `json:"lastWorkflowRun"`
	Tags          tagsResponse      `json:"tags"`
}

type branchResponse struct {
	Name       string `json:"name"`
	Default    bool   `json:"default"`
	Protected  bool   `json:"protected"`
	CommitSHA  string `json:"commitSha"`
	CommitDate string `json:"commitDate"`
}

type pullResponse struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Author    string    `json:"author"`
	Draft     bool      `json:"draft"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	URL       string    `json:"url"`
	Labels    []string  `json:"labels"`
}

type commitResponse struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	URL     string    `json:"url"`
}

type workflowResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"createdAt"`
}

type tagsResponse struct {
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Group    string   `json:"group"`
	Custom   []string `json:"custom"`
}

// toProjectResponse maps a stored project onto the external record.
func toProjectResponse(p *domain.Project) projectResponse {
	branches := make([]branchResponse, len(p.Branches))
	for i, b := range p.Branches {
		branches[i] = branchResponse{
			Name:       b.Name,
			Default:    b.IsDefault,
			Protected:  b.IsDefault,
			CommitSHA:  b.CommitSHA,
			CommitDate: b.CommitDate,
		}
	}

	pulls := make([]pullResponse, len(p.PullRequests))
	for i, pr := range p.PullRequests {
		labels := pr.Labels
		if labels == nil {
			labels = []string{}
		}
		pulls[i] = pullResponse{
			Number:    pr.Number,
			Title:     pr.Title,
			State:     pr.State,
			Author:    pr.Author,
			Draft:     pr.Draft,
			CreatedAt: pr.CreatedAt,
			UpdatedAt: pr.UpdatedAt,
			URL:       pr.URL,
			Labels:    labels,
		}
	}

	commits := make([]commitResponse, len(p.Commits))
	for i, c := range p.Commits {
		commits[i] = commitResponse{
			SHA:     c.SHA,
			Message: c.Message,
			Author:  c.Author,
			Date:    c.Date,
			URL:     c.URL,
		}
	}

	var lastRun *workflowResponse
	if p.LastRun != nil {
		lastRun = &workflowResponse{
			ID:         p.LastRun.ID,
			Name:       p.LastRun.Name,
			Status:     p.LastRun.Status,
			Conclusion: p.LastRun.Conclusion,
			URL:        p.LastRun.URL,
			CreatedAt:  p.LastRun.CreatedAt,
		}
	}

	languages := p.Languages
	if languages == nil {
		languages = map[string]int{}
	}
	topics := p.Topics
	if topics == nil {
		topics = []string{}
	}
	custom := p.Tags.Custom
	if custom == nil {
		custom = []string{}
	}

	return projectResponse{
		ID:            p.ID,
		DisplayName:   p.ID,
		FullName:      p.FullName,
		Description:   p.Description,
		URL:           p.URL,
		Homepage:      p.Homepage,
		Language:      p.Language,
		Languages:     languages,
		Topics:        topics,
		Private:       p.Visibility == "private",
		Visibility:    p.Visibility,
		DefaultBranch: p.DefaultBranch,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		PushedAt:      p.PushedAt,
		DiscoveredAt:  p.DiscoveredAt,
		EnrichedAt:    p.EnrichedAt,
		Stars:         p.Stars,
		Forks:         p.Forks,
		OpenIssues:    p.OpenIssues,
		Branches:      branches,
		PullRequests:  pulls,
		Commits:       commits,
		LastRun:       lastRun,
		Tags: tagsResponse{
			Category: p.Tags.Category,
			Status:   p.Tags.Status,
			Priority: p.Tags.Priority,
			Group:    p.Tags.Group,
			Custom:   custom,
		},
	}
}
