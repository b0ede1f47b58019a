// Package domain contains the core entities of the orgdex catalog.
// Entities here are storage- and transport-agnostic; adapters map them
// to SQL rows, API payloads, and upstream GitHub responses.
package domain
