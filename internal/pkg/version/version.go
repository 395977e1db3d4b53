// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X ledbox-netcfg/internal/pkg/version.version=v1.2.0 \
//	  -X ledbox-netcfg/internal/pkg/version.commit=$(git rev-parse HEAD) \
//	  -X ledbox-netcfg/internal/pkg/version.date=$(date -u +%FT%TZ)"
package version

import "fmt"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns a copy of the build metadata.
func Get() Info {
	return Info{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("version: %s, commit: %s, built: %s", i.Version, i.Commit, i.Date)
}
