// Package authenticity checks that every contribution was attested by an
// allowed witness endpoint.
package authenticity

import (
	"math"
	"strings"

	"dataproof/internal/proof/models"
)

// DefaultValidDomains are the witness suffixes accepted when none are configured.
var DefaultValidDomains = []string{
	"wss://witness.reclaimprotocol.org/ws",
	"reclaimprotocol.org",
}

// Score returns the fraction of contributions whose witnesses all end with one
// of validDomains, rounded to 5 decimals. A contribution with no witness is not
// authentic. No contributions scores 0.
func Score(contributions []models.Contribution, validDomains []string) float64 {
	if len(contributions) == 0 {
		return 0
	}

	valid := 0
	for _, c := range contributions {
		if attested(c.Witnesses, validDomains) {
			valid++
		}
	}
	return round5(float64(valid) / float64(len(contributions)))
}

func attested(witnesses models.Witnesses, validDomains []string) bool {
	if len(witnesses) == 0 {
		return false
	}
	for _, w := range witnesses {
		if !hasValidSuffix(w, validDomains) {
			return false
		}
	}
	return true
}

func hasValidSuffix(witness string, validDomains []string) bool {
	for _, d := range validDomains {
		if d != "" && strings.HasSuffix(witness, d) {
			return true
		}
	}
	return false
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
