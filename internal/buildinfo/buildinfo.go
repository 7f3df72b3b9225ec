// Package buildinfo reports the version of the distribution tooling
// itself, derived from Go build metadata. This is separate from
// release.Version, which pins the portalis release the tooling installs
// and launches.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// ToolVersion returns the version of the running tool binary.
//
// Builds installed from a tag report the tag (e.g. "v1.0.0").
// Development builds report a pseudo-version from VCS metadata:
// "dev-<hash>", "dev-<hash>-dirty" for uncommitted changes, or plain
// "dev" when no VCS info was stamped. "unknown" means build info could
// not be read at all.
func ToolVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return devVersion(info)
}

// Banner renders the full version line for a tool, including the
// portalis release it manages.
func Banner(tool, managedVersion string) string {
	return fmt.Sprintf("%s %s (manages portalis v%s)", tool, ToolVersion(), managedVersion)
}

func devVersion(info *debug.BuildInfo) string {
	var revision string
	var dirty bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}

	// Git short-hash length.
	if len(revision) > 12 {
		revision = revision[:12]
	}

	v := "dev-" + revision
	if dirty {
		v += "-dirty"
	}
	return v
}
