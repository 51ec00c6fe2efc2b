// Package store persists assembled diagrams for the HTTP API.
//
// Records are keyed by a random UUID and expire after a TTL. Three backends
// implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per record, for single-instance servers
//   - [MongoStore]: a MongoDB collection for multi-instance deployments
//
// # Usage
//
//	rec := store.NewRecord(diagram, docHash, store.DefaultTTL)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err := st.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // unknown or expired
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/layout"
)

// DefaultTTL is how long a stored diagram stays retrievable.
const DefaultTTL = 24 * time.Hour

// Record is one stored diagram.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	DocHash   string          `json:"doc_hash,omitempty" bson:"doc_hash,omitempty"`
	Panel     string          `json:"panel,omitempty" bson:"panel,omitempty"`
	Diagram   *layout.Diagram `json:"diagram" bson:"diagram"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether the record has outlived its TTL.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// NewRecord wraps d in a record with a fresh ID.
func NewRecord(d *layout.Diagram, docHash string, ttl time.Duration) *Record {
	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		DocHash:   docHash,
		Diagram:   d,
		CreatedAt: now,
	}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return rec
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Get returns the record with the given ID. Unknown and expired
	// records yield an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores rec, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
}
