package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables injected via -ldflags
var (
	Version   = ""
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Unknown is reported when no version was stamped into the binary.
const Unknown = "unknown"

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the full version string
func String() string {
	return fmt.Sprintf("autoply %s\ncommit: %s\nbuilt: %s\ngo: %s",
		Short(), GitCommit, BuildDate, runtime.Version())
}

// Short returns just the version number. It prefers the ldflags value, then
// the main module version recorded by the toolchain, then Unknown.
func Short() string {
	if Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info != nil {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Unknown
}
