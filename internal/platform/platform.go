// Package platform maps the running system onto the release asset naming
// scheme.
//
// Release binaries are published once per supported OS/architecture pair,
// under names like "portalis-macos-aarch64" and "portalis-windows-x86_64.exe".
// The mapping from Go's runtime identifiers to those asset suffixes is a
// fixed table: platforms outside it are unsupported and reported as such,
// never guessed.
package platform

import (
	"runtime"
	"sort"
)

// Key identifies an operating system and CPU architecture pair using Go's
// runtime naming ("linux"/"amd64", not "Linux"/"x86_64").
type Key struct {
	OS   string
	Arch string
}

// String returns the "os/arch" form used in logs and error messages.
func (k Key) String() string {
	return k.OS + "/" + k.Arch
}

// suffixes is the complete set of platforms the release pipeline builds for.
// Architectures use their vendor names (x86_64, aarch64) and darwin is
// published as "macos".
var suffixes = map[Key]string{
	{OS: "linux", Arch: "amd64"}:   "linux-x86_64",
	{OS: "linux", Arch: "arm64"}:   "linux-aarch64",
	{OS: "darwin", Arch: "amd64"}:  "macos-x86_64",
	{OS: "darwin", Arch: "arm64"}:  "macos-aarch64",
	{OS: "windows", Arch: "amd64"}: "windows-x86_64",
}

// Current returns the Key for the running system.
func Current() Key {
	return Key{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Suffix returns the release asset suffix for k. The boolean is false when
// no release binary is published for k.
func Suffix(k Key) (string, bool) {
	s, ok := suffixes[k]
	return s, ok
}

// Extension returns the executable file extension for k: ".exe" on Windows,
// empty everywhere else.
func Extension(k Key) string {
	if k.OS == "windows" {
		return ".exe"
	}
	return ""
}

// Supported reports whether release binaries are published for k.
func Supported(k Key) bool {
	_, ok := suffixes[k]
	return ok
}

// SupportedKeys returns every platform with published release binaries,
// sorted by OS then architecture so listings are stable.
func SupportedKeys() []Key {
	keys := make([]Key, 0, len(suffixes))
	for k := range suffixes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].OS != keys[j].OS {
			return keys[i].OS < keys[j].OS
		}
		return keys[i].Arch < keys[j].Arch
	})
	return keys
}
