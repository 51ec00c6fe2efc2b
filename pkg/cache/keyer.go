package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is part of every key. Bump it when the diagram JSON changes
// shape so old entries are never decoded into new types.
const keyVersion = "v1"

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey is the key of a diagram computed from the document with
	// content hash docHash.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of an artifact rendered from the diagram with
	// content hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed diagram.
type LayoutKeyOpts struct {
	Mode      string  `json:"mode"`
	Transpose bool    `json:"transpose"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Panel     string  `json:"panel"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Panel  string `json:"panel"`
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer hashes the input hash and options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:v1:<sha256>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return stageKey("layout", docHash, opts)
}

// ArtifactKey returns "artifact:v1:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", layoutHash, opts)
}

func stageKey(stage, inputHash string, opts any) string {
	data, _ := json.Marshal([]any{inputHash, opts})
	return stage + ":" + keyVersion + ":" + Hash(data)
}

// scopedKeyer prefixes another keyer's keys.
type scopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes every key of inner (the default keyer when nil),
// so several deployments can share one Redis without colliding:
//
//	keyer := cache.NewScopedKeyer(nil, "team-a:")
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{inner: inner, prefix: prefix}
}

func (k scopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

func (k scopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
