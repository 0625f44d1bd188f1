// Package canonical turns contribution payloads into content hashes.
//
// Strings are hashed as their raw bytes. Every other value is hashed over its
// JSON encoding; encoding/json sorts map keys, so two structurally equal values
// hash the same regardless of the order their keys were inserted in.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"dataproof/internal/proof/models"
)

// Algorithm selects the content digest.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm maps a config value to an Algorithm, defaulting to SHA256.
func ParseAlgorithm(s string) Algorithm {
	if Algorithm(s) == BLAKE3 {
		return BLAKE3
	}
	return SHA256
}

// Canonicalizer hashes contributions. It holds no state besides the digest
// choice and is safe for concurrent use.
type Canonicalizer struct {
	algorithm Algorithm
}

// New creates a Canonicalizer for the given digest.
func New(algorithm Algorithm) *Canonicalizer {
	return &Canonicalizer{algorithm: ParseAlgorithm(string(algorithm))}
}

// Algorithm reports the digest in use.
func (c *Canonicalizer) Algorithm() Algorithm {
	return c.algorithm
}

// Digest hashes a single value. The result is prefixed with the algorithm name
// so hashes from different digests never compare equal.
func (c *Canonicalizer) Digest(v any) string {
	return c.sum(canonicalBytes(v))
}

// Canonicalize hashes one contribution's securedSharedData. A nil or malformed
// payload produces a payload with no fields.
func (c *Canonicalizer) Canonicalize(contribution models.Contribution) models.CanonicalPayload {
	payload := models.CanonicalPayload{
		Type:    contribution.Type,
		SubType: contribution.SubType,
		Fields:  make(map[string]models.CanonicalValue, len(contribution.SecuredSharedData)),
	}

	for key, value := range contribution.SecuredSharedData {
		payload.Fields[key] = c.canonicalValue(value)
	}
	return payload
}

// CanonicalizeAll hashes every contribution that carries a sub-type, keeping
// submission order. Contributions without a sub-type cannot be aggregated and
// are dropped.
func (c *Canonicalizer) CanonicalizeAll(contributions []models.Contribution) []models.CanonicalPayload {
	out := make([]models.CanonicalPayload, 0, len(contributions))
	for _, contribution := range contributions {
		if contribution.SubType == "" {
			continue
		}
		out = append(out, c.Canonicalize(contribution))
	}
	return out
}

func (c *Canonicalizer) canonicalValue(value any) models.CanonicalValue {
	switch v := value.(type) {
	case map[string]any:
		fields := make(map[string]string, len(v))
		for k, leaf := range v {
			fields[k] = c.Digest(leaf)
		}
		return models.CanonicalValue{Kind: models.KindMapping, Fields: fields}
	case []any:
		items := make([]string, 0, len(v))
		for _, leaf := range v {
			items = append(items, c.Digest(leaf))
		}
		return models.CanonicalValue{Kind: models.KindSequence, Items: items}
	default:
		return models.CanonicalValue{Kind: models.KindScalar, Hash: c.Digest(v)}
	}
}

func (c *Canonicalizer) sum(b []byte) string {
	if c.algorithm == BLAKE3 {
		sum := blake3.Sum256(b)
		return string(BLAKE3) + ":" + hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256(b)
	return string(SHA256) + ":" + hex.EncodeToString(sum[:])
}

func canonicalBytes(v any) []byte {
	if s, ok := v.(string); ok {
		return []byte(s)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte(fmt.Sprintf("%#v", v))
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}
