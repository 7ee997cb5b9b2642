package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Version is the release version, overridable at build time with
// -ldflags "-X github.com/agbru/alusim/internal/app.Version=v1.2.3".
var Version = "dev"

// HasVersionFlag reports whether args asks for the version. The check
// runs before flag parsing so -version works on its own even when the
// rest of the command line would not parse.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "alusim %s (%s %s/%s)\n",
		resolveVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// resolveVersion falls back to the module version recorded in the build
// info when no release version was stamped in.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}
