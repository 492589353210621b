// Package compileinfo describes how a coexstats tool was built, so that
// output files can be traced back to the code and numerical libraries that
// produced them.
package compileinfo

import (
	"fmt"
	"os"
	"path"
	"runtime/debug"
	"strings"
)

// Tracked lists the dependencies whose versions can change the numbers a tool
// writes.
var Tracked = []string{
	"gonum.org/v1/gonum",
	"github.com/glycerine/golang-fisher-exact",
	"github.com/tokenme/probab",
	"github.com/montanaflynn/stats",
}

type CompileInfo struct {
	Tool       string
	Module     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Deps maps each Tracked module that is linked in to its version.
	Deps map[string]string
}

func (c CompileInfo) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s %s) was built with %s", c.Tool, c.Module, c.Version, c.GoVersion)
	if c.Commit != "" {
		fmt.Fprintf(&b, " at commit %s (%s)", c.Commit, c.CommitTime)
	}
	if c.Modified {
		b.WriteString(" from a modified tree")
	}
	b.WriteString(".")

	for _, dep := range Tracked {
		if v, exists := c.Deps[dep]; exists {
			fmt.Fprintf(&b, " %s@%s", path.Base(dep), v)
		}
	}

	return b.String()
}

// FromBuildInfo extracts a CompileInfo from build metadata.
func FromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{Deps: make(map[string]string)}
	if z == nil {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Tool = path.Base(z.Path)
	out.Module = z.Main.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	for _, dep := range z.Deps {
		for _, tracked := range Tracked {
			if dep.Path == tracked {
				out.Deps[dep.Path] = dep.Version
			}
		}
	}

	return out
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return FromBuildInfo(nil)
	}

	return FromBuildInfo(z)
}

func PrintToStdErr() {
	fmt.Fprintln(os.Stderr, Get())
}
