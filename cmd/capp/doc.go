// Package main hosts the capp CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the cappd daemon: listing and filtering saved items, deleting and
// clearing them, CSV export, settings and theme management, capture
// submission, and daemon lifecycle control. It centralizes configuration
// resolution and socket discovery so subcommands can focus on user
// experience instead of wiring.
package main
