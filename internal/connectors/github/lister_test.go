package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ListRepos(t *testing.T) {
	t.Run("paginates until the last page", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `[{"name":"beta","full_name":"acme/beta","default_branch":"main",
					"visibility":"public","stargazers_count":3,"topics":["tools"]}]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/acme/repos?page=2>; rel="next"`, server.URL))
			fmt.Fprint(w, `[{"name":"alpha","full_name":"acme/alpha","description":"first repo",
				"html_url":"https://github.com/acme/alpha","language":"Go","default_branch":"main",
				"visibility":"private","stargazers_count":12,"forks_count":2,"open_issues_count":4}]`)
		})

		source := NewSource(newTestClient(t, server))

		projects, err := source.ListRepos(context.Background(), "acme")

		require.NoError(t, err)
		require.Len(t, projects, 2)

		assert.Equal(t, "alpha", projects[0].ID)
		assert.Equal(t, "acme/alpha", projects[0].FullName)
		assert.Equal(t, "first repo", projects[0].Description)
		assert.Equal(t, "Go", projects[0].Language)
		assert.Equal(t, "private", projects[0].Visibility)
		assert.Equal(t, 12, projects[0].Stars)
		assert.Equal(t, 2, projects[0].Forks)
		assert.Equal(t, 4, projects[0].OpenIssues)
		assert.False(t, projects[0].DiscoveredAt.IsZero())

		assert.Equal(t, "beta", projects[1].ID)
		assert.Equal(t, []string{"tools"}, projects[1].Topics)
	})

	t.Run("empty organization yields no projects", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/orgs/empty/repos", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[]`)
		})

		source := NewSource(newTestClient(t, server))

		projects, err := source.ListRepos(context.Background(), "empty")

		require.NoError(t, err)
		assert.Empty(t, projects)
	})

	t.Run("listing failure fails the whole call", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Bad credentials"}`)
		})

		source := NewSource(newTestClient(t, server))

		projects, err := source.ListRepos(context.Background(), "acme")

		require.Error(t, err)
		assert.Nil(t, projects)
		assert.True(t, IsUnauthorized(err))
	})
}
