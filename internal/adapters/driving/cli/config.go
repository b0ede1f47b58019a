package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/orgdex/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values.

Known keys:
  github.token          GitHub personal access token
  github.organization   Organisation whose repositories are catalogued
  storage.data_dir      Directory for the catalog database
  server.addr           HTTP listen address
  discovery.workers     Concurrent enrichment workers`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration file: %s\n\n", configStore.Path())
	cmd.Printf("  github.token:         %s\n", maskToken(configStore.GetString(file.KeyGitHubToken)))
	cmd.Printf("  github.organization:  %s\n", orUnset(configStore.GetString(file.KeyOrganization)))
	cmd.Printf("  storage.data_dir:     %s\n", orUnset(configStore.GetString(file.KeyDataDir)))
	cmd.Printf("  server.addr:          %s\n", orUnset(configStore.GetString(file.KeyListenAddr)))
	if workers := configStore.GetInt(file.KeyWorkers); workers > 0 {
		cmd.Printf("  discovery.workers:    %d\n", workers)
	} else {
		cmd.Printf("  discovery.workers:    (default)\n")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Integers are stored as integers so GetInt works after reload.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil && key == file.KeyWorkers {
		value = n
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orUnset(val string) string {
	if val == "" {
		return "(not set)"
	}
	return val
}
