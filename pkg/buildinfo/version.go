// Package buildinfo holds the version stamped into syntree binaries.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/syntree/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/syntree/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/syntree/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

const devVersion = "dev"

var (
	Version = devVersion
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// CacheScope namespaces cached scenes and diagrams. Layout or rendering
// changes between builds must not serve each other's entries, so
// development builds are scoped by commit as well.
func CacheScope() string {
	if Version == devVersion && Commit != "none" {
		return devVersion + "-" + Commit
	}
	return Version
}
