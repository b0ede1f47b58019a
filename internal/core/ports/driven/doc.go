// Package driven defines the outbound ports of the orgdex core: the
// interfaces the core needs implemented by storage and upstream-API
// adapters. Implementations live under internal/adapters/driven and
// internal/connectors.
package driven
