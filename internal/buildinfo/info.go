// Package buildinfo carries version metadata stamped in at link time with
// -ldflags "-X github.com/cleared-dev/expenses/internal/buildinfo.Version=...".
package buildinfo

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
