package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		sep      string
		expected []string
	}{
		{name: "empty", raw: "", sep: ",", expected: nil},
		{name: "blank", raw: "   ", sep: ",", expected: nil},
		{name: "single", raw: "reclaimprotocol.org", sep: ",", expected: []string{"reclaimprotocol.org"}},
		{
			name:     "trims and dedupes",
			raw:      " wss://witness.reclaimprotocol.org/ws , reclaimprotocol.org,,reclaimprotocol.org ",
			sep:      ",",
			expected: []string{"wss://witness.reclaimprotocol.org/ws", "reclaimprotocol.org"},
		},
		{name: "other separator", raw: "b1:9092;b2:9092", sep: ";", expected: []string{"b1:9092", "b2:9092"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.raw, tt.sep))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
	assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "}))
}
