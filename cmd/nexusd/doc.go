// Package main is the entry point of nexusd, the Nexus OS desktop backend.
//
// The server keeps the open windows of a single desktop, turns typed
// commands into intents, and serves each user's virtual file system as a
// tree projected from flat node rows.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Run the server
//	nexusd serve --port 8000 --dev
//
//	# Import a host directory for user alice and print the result
//	nexusd import --owner alice ~/Documents --exclude '**/.git'
//	nexusd tree --owner alice --sort
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
