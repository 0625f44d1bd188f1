package authenticity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dataproof/internal/proof/models"
)

func TestScore(t *testing.T) {
	ok := models.Witnesses{"wss://witness.reclaimprotocol.org/ws"}
	tests := []struct {
		name          string
		contributions []models.Contribution
		want          float64
	}{
		{name: "no contributions", want: 0},
		{
			name:          "all attested",
			contributions: []models.Contribution{{Witnesses: ok}, {Witnesses: models.Witnesses{"https://api.reclaimprotocol.org"}}},
			want:          1,
		},
		{
			name: "one of three attested rounds to five decimals",
			contributions: []models.Contribution{
				{Witnesses: ok},
				{Witnesses: models.Witnesses{"https://evil.example"}},
				{},
			},
			want: 0.33333,
		},
		{
			name:          "every witness in a list must match",
			contributions: []models.Contribution{{Witnesses: models.Witnesses{ok[0], "https://evil.example"}}},
			want:          0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.contributions, DefaultValidDomains))
		})
	}
}

func TestEmptyDomainNeverMatches(t *testing.T) {
	contributions := []models.Contribution{{Witnesses: models.Witnesses{"anything"}}}

	assert.Equal(t, 0.0, Score(contributions, []string{""}))
}
