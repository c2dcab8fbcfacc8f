package config

import (
	"fmt"
	"time"
)

// Build metadata, stamped by the release script via
// -ldflags "-X ryujin/config.Version=... -X ryujin/config.GitCommit=...".
var (
	Version   string
	GitCommit string
	BuildTime string
)

func init() {
	// A plain `go build` carries no stamp; fill in something readable.
	if Version == "" {
		Version = "dev"
	}
	if GitCommit == "" {
		GitCommit = "local"
	}
	if BuildTime == "" {
		BuildTime = time.Now().Format("2006-01-02 15:04:05")
	}
}

// VersionString is the one-line version stamp shown by the CLI.
func VersionString() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildTime)
}
