package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version == "" || i.GoVersion == "" || i.ArtifactVersion < 1 {
		t.Errorf("incomplete info: %+v", i)
	}
	if !strings.Contains(i.String(), "version: ") {
		t.Errorf("String() = %q", i.String())
	}
}

func TestShort(t *testing.T) {
	i := Info{Version: "v1.2.0", Commit: "0123456789abcdef"}
	if got := i.Short(); got != "v1.2.0 (0123456)" {
		t.Errorf("Short() = %q", got)
	}
	i.Commit = "abc"
	if got := i.Short(); got != "v1.2.0 (abc)" {
		t.Errorf("Short() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
}
