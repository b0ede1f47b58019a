// Package httpapi exposes the catalog over HTTP for the dashboard and
// agent tooling. It normalizes stored projects into the external record
// shape (display name, privacy flag, derived branch/PR flags, nullable
// last workflow run) and maps domain errors onto HTTP statuses.
package httpapi
