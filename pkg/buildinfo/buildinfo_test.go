package buildinfo

import (
	"fmt"
	"runtime"
	"testing"

	"src.sift.dev/pkg/prog"
	"src.sift.dev/pkg/prog/progtest"
)

func TestVersion(t *testing.T) {
	out := progtest.Run(t, &Program{}, "", "-version")
	if want := (progtest.Output{Stdout: Version + VersionSuffix + "\n"}); out != want {
		t.Errorf("-version: got %#v, want %#v", out, want)
	}
}

func TestVersion_JSON(t *testing.T) {
	out := progtest.Run(t, &Program{}, "", "-version", "-json")
	want := progtest.Output{Stdout: `"` + Version + VersionSuffix + `"` + "\n"}
	if out != want {
		t.Errorf("-version -json: got %#v, want %#v", out, want)
	}
}

func TestBuildinfo(t *testing.T) {
	out := progtest.Run(t, &Program{}, "", "-buildinfo")
	want := progtest.Output{Stdout: fmt.Sprintf(
		"Version: %s\nGo version: %s\n", Version+VersionSuffix, runtime.Version())}
	if out != want {
		t.Errorf("-buildinfo: got %#v, want %#v", out, want)
	}
}

func TestBuildinfo_JSON(t *testing.T) {
	out := progtest.Run(t, &Program{}, "", "-buildinfo", "-json")
	want := progtest.Output{Stdout: fmt.Sprintf(
		`{"version":"%s","goversion":"%s"}`+"\n", Version+VersionSuffix, runtime.Version())}
	if out != want {
		t.Errorf("-buildinfo -json: got %#v, want %#v", out, want)
	}
}

func TestNoFlags_FallsThrough(t *testing.T) {
	out := progtest.Run(t, prog.Composite(&Program{}), "")
	if out.Exit == 0 {
		t.Errorf("running without flags did not fail, output %#v", out)
	}
}
