// Command orgdex catalogues the repositories of a GitHub organisation
// and serves the catalog over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/orgdex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/orgdex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/orgdex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/orgdex/internal/adapters/driving/cli"
	"github.com/custodia-labs/orgdex/internal/connectors/github"
	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
	"github.com/custodia-labs/orgdex/internal/core/services"
	"github.com/custodia-labs/orgdex/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	settings := file.ResolveSettings(configStore)

	store := newProjectStore(settings.DataDir)
	defer store.Close()

	// Without a token the discovery orchestrator runs in demo mode.
	var source driven.RepoSource
	if settings.GitHubToken != "" {
		client := github.NewClientWithToken(context.Background(), settings.GitHubToken)
		source = github.NewSource(client)
	}

	catalog := services.NewCatalogService(store)
	discovery := services.NewDiscoveryOrchestrator(
		source, store, settings.Organization, settings.Workers)

	cli.SetServices(catalog, discovery, configStore, settings.ListenAddr)
	return cli.Execute()
}

// newProjectStore opens the persistent store, falling back to the
// in-memory store when the database cannot be opened. The decision is
// made once at startup; a catalog built in memory lives until the
// process exits.
func newProjectStore(dataDir string) driven.ProjectStore {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("persistent store unavailable, using in-memory catalog: %v", err)
		return memory.NewProjectStore()
	}
	return store
}
