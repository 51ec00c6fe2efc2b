package layout

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWireRoundTrip(t *testing.T) {
	m := newModel(t,
		[]activity{{"A", 0, 0}, {"B", 200, 0}, {"C", 200, 100}},
		[2]string{"A", "B"}, [2]string{"", "A"}, [2]string{"B", "C"},
	)
	d, err := Assemble(m, Config{Mode: ModeSchematic})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"unknown mode", `{"mode": "radial"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("Unmarshal() error = nil, want error")
			}
		})
	}

	d, err := Unmarshal([]byte(`{"nodes": []}`))
	if err != nil || d.Mode != ModeFlow {
		t.Errorf("Unmarshal(no mode) = %v, %v; want flow", d, err)
	}
}
