package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestColoredPlain(t *testing.T) {
	withPlainColor(t)
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3":                "1.2.3",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"nightly":              "nightly",
	}
	for in, want := range tests {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringIncludesBuildInfo(t *testing.T) {
	withPlainColor(t)
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = origCommit, origDate })

	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	got := String()
	for _, part := range []string{"margarine " + Version, "(abc123)", "built 2024-01-15T10:30:00Z"} {
		if !strings.Contains(got, part) {
			t.Fatalf("%q does not contain %q", got, part)
		}
	}

	GitCommit, BuildDate = "", ""
	if got := String(); strings.Contains(got, "()") || strings.Contains(got, "built") {
		t.Fatalf("empty build info must be omitted: %q", got)
	}
}
