// Package driving defines the inbound ports of the orgdex core: the
// interfaces the HTTP API and CLI drive the application through.
package driving
