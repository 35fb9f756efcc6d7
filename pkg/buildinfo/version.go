// Package buildinfo holds version information injected at link time:
//
//	go build -ldflags "-X github.com/matzehuels/depstatus/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/depstatus/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/depstatus/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// homepage is sent in the User-Agent so upstream hosts can reach the
// operator.
const homepage = "https://github.com/matzehuels/depstatus"

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies outbound requests to GitHub and crates.io. The
// crates.io crawler policy asks for a contact URL.
func UserAgent() string {
	return fmt.Sprintf("depstatus/%s (%s)", Version, homepage)
}
