// Package cli implements the command-line interface using cobra.
// Services are injected by the composition root before Execute runs;
// commands guard against missing services so the package stays
// testable in isolation.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
	"github.com/custodia-labs/orgdex/internal/core/ports/driving"
	"github.com/custodia-labs/orgdex/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	catalogService   driving.Catalog
	discoveryService driving.Discovery
	configStore      driven.ConfigStore
	listenAddr       string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "orgdex",
	Short: "Catalog of an organisation's GitHub repositories",
	Long: `orgdex discovers the repositories of a GitHub organisation, enriches
them with activity data (branches, open pull requests, recent commits,
workflow runs, languages) and serves the resulting catalog over HTTP.

Without a configured GitHub token, discovery loads a deterministic demo
catalog so the rest of the system can be exercised offline.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the wired services. Called by the composition
// root before Execute.
func SetServices(
	catalog driving.Catalog,
	discovery driving.Discovery,
	config driven.ConfigStore,
	addr string,
) {
	catalogService = catalog
	discoveryService = discovery
	configStore = config
	listenAddr = addr
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
