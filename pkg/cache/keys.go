package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ArtifactVersion is part of every artifact key. Bump it whenever generation
// or rendering changes output for existing options.
const ArtifactVersion = 1

// ArtifactKeyOpts lists everything besides the marker key that changes an
// artifact's bytes.
type ArtifactKeyOpts struct {
	Mode       string `json:"mode"`
	Shape      string `json:"shape"`
	Format     string `json:"format"`
	ShowCode   bool   `json:"show_code"`
	ShowNumber bool   `json:"show_number"`
	CodeText   string `json:"code_text,omitempty"`
	Size       int    `json:"size"`
	Binary     bool   `json:"binary"`
	Font       string `json:"font,omitempty"`
	// Geometry encodes non-default canvas settings.
	Geometry string `json:"geometry,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(key int, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:v<version>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the marker key together with opts.
func (DefaultKeyer) ArtifactKey(key int, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:v%d", ArtifactVersion), key, opts)
}

// hashKey joins prefix with the SHA-256 of the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
