package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/orgdex/internal/core/ports/driving"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery cycle",
	Long: `Lists the organisation's repositories, enriches each with activity
data and writes the results to the catalog. Tags applied to already
known projects are preserved.

Without a configured GitHub token, loads the demo catalog instead.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	cmd.Println("Running discovery...")

	result, err := discoveryService.Run(context.Background())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if result.Mode == driving.ModeDemo {
		cmd.Printf("No GitHub token configured, loaded %d demo projects.\n", result.Count)
	} else {
		cmd.Printf("Discovered %d projects.\n", result.Count)
	}
	return nil
}
