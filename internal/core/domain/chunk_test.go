package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	tests := []struct {
		name   string
		source string
		page   int
		index  int
		want   string
	}{
		{
			name:   "pdf extension stripped",
			source: "policy.pdf",
			page:   1,
			index:  0,
			want:   "policy-p1-c0",
		},
		{
			name:   "multi digit page and index",
			source: "terms.pdf",
			page:   12,
			index:  34,
			want:   "terms-p12-c34",
		},
		{
			name:   "no extension",
			source: "policy",
			page:   2,
			index:  1,
			want:   "policy-p2-c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkID(tt.source, tt.page, tt.index))
		})
	}
}

func TestNewChunk(t *testing.T) {
	pc := PageChunk{Text: "Knee surgery is covered.", Page: 3, ChunkIndex: 2}
	chunk := NewChunk(pc, "policy.pdf")

	assert.Equal(t, "Knee surgery is covered.", chunk.Content)
	assert.Equal(t, "policy.pdf", chunk.Source)
	assert.Equal(t, 3, chunk.Page)
	assert.Equal(t, 2, chunk.ChunkIndex)
	assert.Equal(t, "policy-p3-c2", chunk.ChunkID)
}
