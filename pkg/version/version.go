package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These are set at link time, e.g. -ldflags "-X github.com/openshift/ci-hud/pkg/version.commitFromGit=abc123".
var (
	commitFromGit = ""
	buildDate     = ""
)

// Info describes the running binary.
type Info struct {
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the version information of the binary. The commit falls back to the VCS
// revision recorded by the go toolchain when it was not set at link time.
func Get() Info {
	commit, date := commitFromGit, buildDate
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	return Info{
		GitCommit: commit,
		BuildDate: date,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
