package models

// ValueKind records the shape of the original securedSharedData value.
type ValueKind string

const (
	KindScalar   ValueKind = "scalar"
	KindMapping  ValueKind = "mapping"
	KindSequence ValueKind = "sequence"
)

// CanonicalValue mirrors one top-level securedSharedData value with every leaf
// replaced by its content hash. Exactly one of Hash, Fields or Items is set,
// according to Kind.
type CanonicalValue struct {
	Kind   ValueKind         `json:"kind"`
	Hash   string            `json:"hash,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Items  []string          `json:"items,omitempty"`
}

// Hashes flattens the value into its leaf hashes. Order follows Items for
// sequences and is unspecified for mappings.
func (v CanonicalValue) Hashes() []string {
	switch v.Kind {
	case KindMapping:
		out := make([]string, 0, len(v.Fields))
		for _, h := range v.Fields {
			out = append(out, h)
		}
		return out
	case KindSequence:
		return append([]string(nil), v.Items...)
	default:
		if v.Hash == "" {
			return nil
		}
		return []string{v.Hash}
	}
}

// HashSet returns the distinct leaf hashes of the value.
func (v CanonicalValue) HashSet() map[string]struct{} {
	hashes := v.Hashes()
	set := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		set[h] = struct{}{}
	}
	return set
}

// CanonicalPayload is the hashed form of one contribution, keyed by the
// top-level keys of its securedSharedData.
type CanonicalPayload struct {
	Type    string                    `json:"type,omitempty"`
	SubType string                    `json:"subType"`
	Fields  map[string]CanonicalValue `json:"fields"`
}

// HashCount is the number of distinct hashes per field, summed over fields.
func (p CanonicalPayload) HashCount() int {
	total := 0
	for _, v := range p.Fields {
		total += len(v.HashSet())
	}
	return total
}

// HistoricalPointer locates a prior submission: its corpus key plus the
// encrypted artifact to fall back to when the corpus store misses.
type HistoricalPointer struct {
	ID         string `json:"id"`
	URL        string `json:"url,omitempty"`
	Passphrase string `json:"passphrase,omitempty"`
}
