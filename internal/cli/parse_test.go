package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pio "github.com/matzehuels/procflow/pkg/io"
)

const twoPanelJSON = `{
  "rows": [
    {"Object Type": "Activity", "Activity ID": "A", "Position X": 0, "Position Y": 0, "Trellis By": "North"},
    {"Object Type": "Activity", "Activity ID": "B", "Position X": 200, "Position Y": 0, "Trellis By": "North"},
    {"Object Type": "Transition", "Initial Activity ID": "A", "Terminal Activity ID": "B", "Trellis By": "North"},
    {"Object Type": "Activity", "Activity ID": "A", "Position X": 0, "Position Y": 0, "Trellis By": "South Yard"},
    {"Object Type": "Transition", "Terminal Activity ID": "A", "Trellis By": "South Yard"}
  ]
}`

const onePanelCSV = "Object Type,Activity ID,Position X,Position Y,Initial Activity ID,Terminal Activity ID\n" +
	"Activity,A,0,0,,\n" +
	"Activity,B,0,150,,\n" +
	"Transition,,,,A,B\n"

// testCLI returns a CLI isolated from the user's config and cache.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "")
	t.Setenv(envAddr, "")
	return New(&bytes.Buffer{}, LogInfo)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPanelLabel(t *testing.T) {
	if got := panelLabel(""); got != "(default)" {
		t.Errorf("panelLabel(\"\") = %q", got)
	}
	if got := panelLabel("North"); got != "North" {
		t.Errorf("panelLabel(North) = %q", got)
	}
}

func TestParseCommandConvertsCSV(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "process.csv", onePanelCSV)
	out := filepath.Join(dir, "process.json")

	if _, err := runCLI(t, c, "parse", in, "-o", out); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	doc, err := pio.Import(out)
	if err != nil {
		t.Fatalf("re-import converted document: %v", err)
	}
	if len(doc.Rows) != 3 {
		t.Errorf("converted rows = %d, want 3", len(doc.Rows))
	}
	if doc.Rows[2]["Terminal Activity ID"] != "B" {
		t.Errorf("transition row = %v", doc.Rows[2])
	}
}

func TestParseCommandErrors(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"parse", filepath.Join(dir, "absent.json")}, "absent.json"},
		{"row limit", []string{"parse", writeFile(t, dir, "rows.json", twoPanelJSON), "--row-limit", "2"}, "row"},
		{"trellis limit", []string{"parse", writeFile(t, dir, "panels.json", twoPanelJSON), "--max-trellis", "1"}, "trellis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, c, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
