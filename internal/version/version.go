// Package version reports the tagmill build version.
package version

import "runtime/debug"

// Version is the release version. Overridden at build time:
//
//	go build -ldflags "-X github.com/tagmill/tagmill/internal/version.Version=v1.2.3"
var Version = ""

// String returns the release version, falling back to the module version
// stamped into the binary, then to "dev".
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
