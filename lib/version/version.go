// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags at build time.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// Current returns the build of the running binary. Values injected with
// -ldflags win over embedded VCS settings.
func Current() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildTime,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return build
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "" {
				build.Commit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if build.BuildTime == "" {
				build.BuildTime = setting.Value
			}
		case "vcs.modified":
			build.Dirty = setting.Value == "true"
		}
	}
	return build
}

func shortCommit(revision string) string {
	if len(revision) > 12 {
		return revision[:12]
	}
	return revision
}

// String formats b for --version style output.
func (b Build) String() string {
	commit := b.Commit
	if commit == "" {
		commit = "unknown"
	}
	if b.Dirty {
		commit += "-dirty"
	}
	s := fmt.Sprintf("%s (%s", b.Version, commit)
	if b.BuildTime != "" {
		s += ", " + b.BuildTime
	}
	return s + ")"
}

// UserAgent is the User-Agent header value the client sends.
func UserAgent() string {
	return "talk/" + Version
}
