// Package ipc implements the control channel between the capp CLI and the
// cappd daemon: JSON-RPC over a Unix domain socket. Every method answers,
// even on failure; handlers fold store errors into the response rather than
// leaving the caller hanging.
package ipc
