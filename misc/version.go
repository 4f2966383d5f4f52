// Package misc keeps build time information about the program.
package misc

// Values below are replaced at build time with -ldflags "-X treegrid/misc.version=...".
var (
	appName = "treegrid"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns name the program reports about itself, it is also used
// as base for log and report file names.
func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
