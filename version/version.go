// Package version reports build metadata for the asciiplay binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build metadata, set via ldflags:
//
//	-X go.jacobcolvin.com/asciiplay/version.Version=v1.2.3
var (
	Version   string
	Branch    string
	BuildUser string
	BuildDate string
)

// Info describes one build of the binary.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the metadata of the running binary. Without ldflags the
// version falls back to the main module version recorded by the toolchain.
func Get() Info {
	info := Info{
		Version:   Version,
		Revision:  "unknown",
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info.withDefaults()
	}

	if info.Version == "" {
		info.Version = bi.Main.Version
	}

	info.Revision = revision(bi.Settings)

	return info.withDefaults()
}

func (i Info) withDefaults() Info {
	if i.Version == "" || i.Version == "(devel)" {
		i.Version = "dev"
	}

	return i
}

// String renders the metadata as aligned "key: value" lines.
func (i Info) String() string {
	var sb strings.Builder

	line := func(key, value string) {
		if value == "" {
			return
		}

		fmt.Fprintf(&sb, "%-11s %s\n", key+":", value)
	}

	line("version", i.Version)
	line("revision", i.Revision)
	line("branch", i.Branch)
	line("build user", i.BuildUser)
	line("build date", i.BuildDate)
	line("go version", i.GoVersion)
	line("platform", i.Platform)

	return sb.String()
}

// revision returns the VCS revision from build settings, suffixed with
// "-dirty" for modified trees.
func revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
