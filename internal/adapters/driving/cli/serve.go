package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/orgdex/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/orgdex/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog API over HTTP",
	Long: `Starts the HTTP API. Endpoints live under /api/v1 and cover project
listing and lookup, tag updates, catalog statistics and on-demand
discovery.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides configuration)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if catalogService == nil || discoveryService == nil {
		return errors.New("catalog services not configured")
	}

	addr := listenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := httpapi.NewServer(catalogService, discoveryService)

	cmd.Printf("Serving catalog API on %s\n", addr)
	logger.Info("http: listening on %s", addr)

	if err := server.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
