package version

import (
	"runtime/debug"
	"strings"
)

// Version information set by build flags
// Version is the current version of Bedrock-Editor.
// Set using -ldflags "-X github.com/AdamJauhari/Bedrock-Editor/pkg/version.Version=v1.2.3"
var version string = "unknown"

func String() string {
	if version == "unknown" {
		// Module builds carry the version in the build info.
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			return bi.Main.Version
		}
	}
	return version
}

func UserAgent() string {
	s := strings.Builder{}
	s.WriteString("Bedrock-Editor/")
	if v := String(); v != "" {
		s.WriteString(v)
	} else {
		s.WriteString("Dirty")
	}
	return s.String()
}
