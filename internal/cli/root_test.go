package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupePIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "keeps operator order",
			in:   []string{"obj:3", "obj:1", "obj:2"},
			want: []string{"obj:3", "obj:1", "obj:2"},
		},
		{
			name: "drops duplicates, first occurrence wins",
			in:   []string{"obj:1", "obj:2", "obj:1", "obj:2", "obj:3"},
			want: []string{"obj:1", "obj:2", "obj:3"},
		},
		{
			name: "single pid",
			in:   []string{"obj:1"},
			want: []string{"obj:1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupePIDs(tt.in))
		})
	}
}
