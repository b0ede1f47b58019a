package driving

import "context"

// Discovery modes reported by Run.
const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// DiscoveryResult summarises one completed discovery cycle.
type DiscoveryResult struct {
	// Count is the number of projects written to the store.
	Count int

	// Mode is ModeLive when discovery ran against the upstream API,
	// ModeDemo when the deterministic demo set was loaded instead.
	Mode string
}

// Discovery runs one full discovery cycle: list the organization's
// repositories, enrich them concurrently, and batch-upsert the results.
type Discovery interface {
	// Run executes one cycle to completion. Re-running is always safe:
	// it supersedes prior enrichment fields, never touches tags, and
	// never deletes repositories that vanished upstream.
	Run(ctx context.Context) (*DiscoveryResult, error)
}
