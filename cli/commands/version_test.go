package commands

import (
	"strings"
	"testing"
)

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp(t, &fakeProvider{}, &memKeystore{})
	ta.app.SetArgs([]string{"version"})

	if err := ta.app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := ta.stdout.String()
	if !strings.Contains(out, "scribe "+Version) {
		t.Errorf("output = %q, should contain version line", out)
	}
	if !strings.Contains(out, "go version:") {
		t.Errorf("output = %q, should contain go version", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	ta := newTestApp(t, &fakeProvider{}, &memKeystore{})
	ta.app.SetArgs([]string{"version", "--json"})

	if err := ta.app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := ta.stdout.String()
	if !strings.Contains(out, `"version":"`+Version+`"`) {
		t.Errorf("JSON output = %q", out)
	}
}
