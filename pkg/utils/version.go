// Package utils holds small build-time values shared by the huddle binaries.
package utils

// Set via -ldflags at release time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent identifies huddle to the services it calls.
func UserAgent() string {
	return "huddle/" + Version
}
