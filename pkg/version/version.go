// Package version holds build metadata set with -ldflags.
package version

var (
	Version = "dev"
	Commit  = "none"
)
