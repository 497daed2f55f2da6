// Package daemon hosts the long-running clip service: the shared store
// handle, the capture pipeline, and the local HTTP API. It enforces
// single-instance execution with a file lock and opens the database lazily on
// first use so a freshly started daemon answers control requests before any
// capture arrives.
package daemon
