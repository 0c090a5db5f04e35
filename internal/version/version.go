// Package version records build identification for the lapdelta binary.
// The variables are overridden at link time via -ldflags.
package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the version and commit in one log-friendly token.
func String() string {
	return Version + " (" + GitSHA + ")"
}
