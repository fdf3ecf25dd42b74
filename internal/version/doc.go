// Package version exposes build metadata for the soundlock binary.
//
// Version, Commit and BuildTime are injected with -ldflags -X at build time
// and fall back to placeholders for local builds. Full is printed by the
// version subcommand; Short goes into the startup log line.
package version
