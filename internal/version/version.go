// Package version holds build-time version and commit (set via ldflags).
package version

// Version is the semantic version. Set at build:
// -ldflags "-X github.com/menezmethod/helpdesk/internal/version.Version=..."
var Version = "dev"

// Commit is the git commit hash. Set at build:
// -ldflags "-X github.com/menezmethod/helpdesk/internal/version.Commit=..."
var Commit = ""
