// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.sift.dev/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"src.sift.dev/pkg/prog"
)

// Version identifies the version of sift. On development commits, it
// identifies the next release.
const Version = "0.1.0"

// VersionSuffix is appended to Version in the output of "sift -version" and
// "sift -buildinfo" to build the full version string. This can be overridden
// when building sift.
var VersionSuffix = "-dev.unknown"

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "show version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "show build info and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	fullVersion := Version + VersionSuffix
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintf(fds[1], `{"version":%s,"goversion":%s}`+"\n",
				quoteJSON(fullVersion), quoteJSON(runtime.Version()))
		} else {
			fmt.Fprintln(fds[1], "Version:", fullVersion)
			fmt.Fprintln(fds[1], "Go version:", runtime.Version())
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], quoteJSON(fullVersion))
		} else {
			fmt.Fprintln(fds[1], fullVersion)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

var jsonEscaper = strings.NewReplacer(`"`, `\"`, `\`, `\\`)

func quoteJSON(s string) string {
	return `"` + jsonEscaper.Replace(s) + `"`
}
