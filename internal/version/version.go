// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime/debug"
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// New returns Info for the injected values. A "dev" build fills the commit
// and time from the embedded VCS stamp when available.
func New(version, commit, buildTime string) Info {
	info := Info{Version: version, GitCommit: commit, BuildTime: buildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildSettings(bi.Settings)
	}
	return info.withDefaults()
}

func (i Info) withBuildSettings(settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if unset(i.GitCommit) && s.Value != "" {
				i.GitCommit = s.Value
				if len(i.GitCommit) > 7 {
					i.GitCommit = i.GitCommit[:7]
				}
			}
		case "vcs.time":
			if unset(i.BuildTime) && s.Value != "" {
				i.BuildTime = s.Value
			}
		}
	}
	return i
}

func (i Info) withDefaults() Info {
	if i.Version == "" {
		i.Version = "dev"
	}
	if unset(i.GitCommit) {
		i.GitCommit = "unknown"
	}
	if unset(i.BuildTime) {
		i.BuildTime = "unknown"
	}
	return i
}

func unset(s string) bool {
	return s == "" || s == "unknown"
}

// String formats the info for -version output.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}
