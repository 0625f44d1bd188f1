// Package novelty compares a submission's canonical payloads against the
// historical corpus, per sub-type.
//
// The comparison measures how much of the historical record for a sub-type is
// absent from the current submission: for every field key of the historical
// payload, the historical hashes not present in the current payload's same
// field count as unique. A sub-type with no history is fully novel; a sub-type
// present only in history scores zero.
package novelty

import (
	"sort"

	"dataproof/internal/proof/models"
	"dataproof/internal/uniqueness/metrics"
)

type hashSet map[string]struct{}

// fieldIndex maps a top-level field key to its distinct leaf hashes.
type fieldIndex map[string]hashSet

// Comparator computes novelty results. The zero value is usable and uses
// last-write-wins for duplicate sub-types on both sides.
type Comparator struct {
	mergeHistorical bool
	metrics         *metrics.Metrics
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithMergedHistory unions all historical payloads of a sub-type instead of
// keeping only the last one seen.
func WithMergedHistory(merge bool) Option {
	return func(c *Comparator) {
		c.mergeHistorical = merge
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Comparator) {
		c.metrics = m
	}
}

// New constructs a Comparator.
func New(opts ...Option) *Comparator {
	c := &Comparator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare scores current against historical. Entries are sorted by sub-type;
// the aggregate is the mean ratio over every sub-type seen on either side.
func (c *Comparator) Compare(current, historical []models.CanonicalPayload) models.UniquenessResult {
	cur := index(current, false)
	hist := index(historical, c.mergeHistorical)

	subTypes := make([]string, 0, len(cur)+len(hist))
	for st := range cur {
		subTypes = append(subTypes, st)
	}
	for st := range hist {
		if _, ok := cur[st]; !ok {
			subTypes = append(subTypes, st)
		}
	}
	sort.Strings(subTypes)

	result := models.UniquenessResult{Entries: make([]models.NoveltyResult, 0, len(subTypes))}
	if len(subTypes) == 0 {
		return result
	}

	var sum float64
	for _, st := range subTypes {
		entry := compareSubType(st, cur[st], hist[st])
		c.metrics.ObserveNovelty(st, entry.Ratio)
		result.Entries = append(result.Entries, entry)
		sum += entry.Ratio
	}
	result.Score = sum / float64(len(subTypes))
	return result
}

// Compare runs a default Comparator.
func Compare(current, historical []models.CanonicalPayload) models.UniquenessResult {
	return New().Compare(current, historical)
}

func compareSubType(subType string, cur, hist fieldIndex) models.NoveltyResult {
	switch {
	case hist == nil:
		n := cur.count()
		return models.NoveltyResult{SubType: subType, UniqueCount: n, TotalCount: n, Ratio: 1}
	case cur == nil:
		return models.NoveltyResult{SubType: subType, TotalCount: hist.count()}
	}

	var unique, total int
	for key, histHashes := range hist {
		curHashes := cur[key]
		for h := range histHashes {
			total++
			if _, seen := curHashes[h]; !seen {
				unique++
			}
		}
	}

	entry := models.NoveltyResult{SubType: subType, UniqueCount: unique, TotalCount: total}
	// An empty current payload contributes nothing new.
	if total > 0 && cur.count() > 0 {
		entry.Ratio = float64(unique) / float64(total)
	}
	return entry
}

// index groups payloads by sub-type. Without merge a later payload for the
// same sub-type replaces the earlier one.
func index(payloads []models.CanonicalPayload, merge bool) map[string]fieldIndex {
	out := make(map[string]fieldIndex, len(payloads))
	for _, p := range payloads {
		if p.SubType == "" {
			continue
		}
		fields, ok := out[p.SubType]
		if !ok || !merge {
			fields = fieldIndex{}
			out[p.SubType] = fields
		}
		for key, v := range p.Fields {
			set, ok := fields[key]
			if !ok {
				set = hashSet{}
				fields[key] = set
			}
			for h := range v.HashSet() {
				set[h] = struct{}{}
			}
		}
	}
	return out
}

func (f fieldIndex) count() int {
	n := 0
	for _, set := range f {
		n += len(set)
	}
	return n
}
