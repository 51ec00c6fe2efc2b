package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/process"
)

func sampleDiagram() *layout.Diagram {
	return &layout.Diagram{
		Mode:     layout.ModeFlow,
		Viewport: layout.Viewport{Width: 800, Height: 600},
		Nodes: []layout.Node{
			{ID: "A", Kind: process.KindActivity, Box: geometry.Rect{X: 20, Y: 20, Width: 120, Height: 65}},
		},
		Width:  160,
		Height: 105,
	}
}

func TestStores(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		store Store
	}{
		{"memory", NewMemoryStore()},
		{"file", fs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := tt.store
			defer st.Close(ctx)

			rec := NewRecord(sampleDiagram(), "abc", time.Hour)
			if err := st.Put(ctx, rec); err != nil {
				t.Fatalf("Put: %v", err)
			}

			got, err := st.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if diff := cmp.Diff(rec.Diagram, got.Diagram); diff != "" {
				t.Errorf("diagram mismatch (-want +got):\n%s", diff)
			}
			if got.DocHash != "abc" {
				t.Errorf("DocHash = %q, want abc", got.DocHash)
			}

			if _, err := st.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Get(missing) error = %v, want %s", err, errors.ErrCodeNotFound)
			}

			expired := NewRecord(sampleDiagram(), "", time.Hour)
			expired.ExpiresAt = time.Now().Add(-time.Minute)
			if err := st.Put(ctx, expired); err != nil {
				t.Fatal(err)
			}
			if _, err := st.Get(ctx, expired.ID); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Get(expired) error = %v, want %s", err, errors.ErrCodeNotFound)
			}
			if err := st.Cleanup(ctx); err != nil {
				t.Fatalf("Cleanup: %v", err)
			}

			if err := st.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := st.Get(ctx, rec.ID); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Error("record should be gone after Delete")
			}
			if err := st.Delete(ctx, rec.ID); err != nil {
				t.Errorf("Delete(missing) = %v, want nil", err)
			}
		})
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	live := NewRecord(sampleDiagram(), "", time.Hour)
	forever := NewRecord(sampleDiagram(), "", 0)
	old := NewRecord(sampleDiagram(), "", time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Second)
	for _, r := range []*Record{live, forever, old} {
		_ = st.Put(ctx, r)
	}

	if err := st.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if st.Len() != 2 {
		t.Errorf("Len() after Cleanup = %d, want 2", st.Len())
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord(sampleDiagram(), "", time.Hour)
	rec.ID = "../escape"
	if err := st.Put(context.Background(), rec); err == nil {
		t.Error("Put with a path ID should fail")
	}
}

func TestNewMongoStoreErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewMongoStore(ctx, MongoOptions{}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewMongoStore(no uri) error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
	_, err := NewMongoStore(ctx, MongoOptions{URI: "mongodb://127.0.0.1:1", Timeout: 100 * time.Millisecond})
	if err == nil {
		t.Error("NewMongoStore(unreachable) error = nil")
	}
}
