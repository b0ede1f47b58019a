// Package services implements the application core: the discovery
// orchestrator that fans enrichment out over a bounded worker pool, the
// catalog service that fronts the project store, and the deterministic
// demo data set used when no upstream credentials are configured.
package services
