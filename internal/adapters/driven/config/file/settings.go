package file

import (
	"os"
	"strconv"

	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
)

// Configuration keys, dot-notation into the TOML file.
const (
	KeyGitHubToken  = "github.token"
	KeyOrganization = "github.organization"
	KeyDataDir      = "storage.data_dir"
	KeyListenAddr   = "server.addr"
	KeyWorkers      = "discovery.workers"
)

// Environment variables that override the file values.
const (
	EnvGitHubToken  = "ORGDEX_GITHUB_TOKEN"
	EnvOrganization = "ORGDEX_ORG"
	EnvDataDir      = "ORGDEX_DATA_DIR"
	EnvListenAddr   = "ORGDEX_ADDR"
	EnvWorkers      = "ORGDEX_WORKERS"
)

// DefaultListenAddr is used when neither the file nor the environment
// names a listen address.
const DefaultListenAddr = ":8080"

// Settings are the resolved runtime settings: config file values with
// environment overrides applied on top.
type Settings struct {
	GitHubToken  string
	Organization string
	DataDir      string
	ListenAddr   string
	Workers      int
}

// ResolveSettings reads the runtime settings from the store and applies
// environment overrides. Empty fields mean "not configured"; callers
// decide the fallback (demo mode for a missing token, defaults for the
// rest).
func ResolveSettings(store driven.ConfigStore) Settings {
	s := Settings{
		GitHubToken:  store.GetString(KeyGitHubToken),
		Organization: store.GetString(KeyOrganization),
		DataDir:      store.GetString(KeyDataDir),
		ListenAddr:   store.GetString(KeyListenAddr),
		Workers:      store.GetInt(KeyWorkers),
	}

	if v := os.Getenv(EnvGitHubToken); v != "" {
		s.GitHubToken = v
	}
	if v := os.Getenv(EnvOrganization); v != "" {
		s.Organization = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		s.ListenAddr = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Workers = n
		}
	}

	if s.ListenAddr == "" {
		s.ListenAddr = DefaultListenAddr
	}
	return s
}
