// Package github implements the upstream repository source against the
// GitHub REST API using go-github.
//
// Every outbound call goes through the rate-limit guard: primary rate
// limits are retried exactly once, secondary (abuse-detection) limits
// fail immediately. The enricher runs five independent sub-fetches per
// repository and tolerates per-field failure so a repository with, say,
// disabled Actions still appears in the catalog with partial data.
package github
