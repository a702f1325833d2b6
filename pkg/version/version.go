package version

import (
	"fmt"
	"strings"
)

// Set at build time with -ldflags "-X github.com/WangYihang/Domain-Hunter/pkg/version.Version=..."
var (
	// Version is the release of the binary
	Version = "dev"
	// CommitHash is the commit the binary was built from
	CommitHash = "none"
	// BuildTime is the build date of the binary
	BuildTime = "unknown"
)

// Info is the version object of the program
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
}

// Current returns the version the binary was built with
func Current() Info {
	return Info{Version: Version, CommitHash: CommitHash, BuildTime: BuildTime}
}

// Short returns a single-line version
func (i Info) Short() string {
	return fmt.Sprintf("%s (%s, %s)", i.tag(), i.CommitHash, i.BuildTime)
}

// UserAgent is the default User-Agent sent by HTTP probes and scrapers
func (i Info) UserAgent() string {
	return "DomainHunter/" + strings.TrimPrefix(i.tag(), "v")
}

// String returns the verbose version
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain Hunter %s\n", i.tag())
	fmt.Fprintf(&b, "Commit: %s\n", i.CommitHash)
	fmt.Fprintf(&b, "Build Date: %s", i.BuildTime)
	return b.String()
}

func (i Info) tag() string {
	if i.Version == "" || i.Version == "dev" {
		return "dev"
	}
	return "v" + strings.TrimPrefix(i.Version, "v")
}
