// Package version reports the keel build version.
package version

import "runtime/debug"

// version is set at build time with
// -ldflags "-X github.com/indaco/keel/internal/version.version=x.y.z".
var version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the linker-provided version, then the module version
// recorded by "go install", then "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := readBuildInfo(); ok {
		v := info.Main.Version
		if v != "" && v != "(devel)" {
			if v[0] == 'v' {
				return v[1:]
			}
			return v
		}
	}
	return "dev"
}
