// Package common contains helpers shared by most other packages.
package common

import (
	"runtime/debug"
	"strings"
)

// Trim cuts s off at limit runes, appending "..." if anything was cut.
// Embed field values are capped at 1024 characters, so that is the usual limit.
func Trim(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// Quote returns s as a Discord block quote.
func Quote(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "> " + lines[i]
	}
	return strings.Join(lines, "\n")
}

// Version returns the module version, or the VCS revision for development builds.
func Version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				s.Value = s.Value[:12]
			}
			return s.Value
		}
	}

	return "unknown"
}
