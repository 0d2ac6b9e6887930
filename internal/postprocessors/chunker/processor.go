// Package chunker provides a sentence-based text chunking processor.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/claimsight/claimsight/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// sentenceDelimiter separates sentences in extracted text.
const sentenceDelimiter = ". "

// Processor splits page text into overlapping, size-bounded chunks on
// sentence boundaries. It implements the Chunker interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "sentence-chunker"
}

// Split cuts the text of one page into ordered chunks. Sentences are
// accumulated greedily; when the next sentence would push the buffer
// past the chunk size, the buffer is emitted and the next chunk is
// seeded with the tail of the previous one. A single sentence longer
// than the chunk size is kept whole. ChunkIndex starts at 0 per page.
func (p *Processor) Split(text string, page int) []domain.PageChunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := strings.Split(text, sentenceDelimiter)

	var chunks []domain.PageChunk
	var current string
	index := 0

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		potential := sentence
		if current != "" {
			potential = current + sentenceDelimiter + sentence
		}

		if utf8.RuneCountInString(potential) > p.chunkSize && current != "" {
			chunks = append(chunks, domain.PageChunk{
				Text:       strings.TrimSpace(current),
				Page:       page,
				ChunkIndex: index,
			})

			// Seed the next chunk with the closed chunk's tail so
			// consecutive chunks share context.
			tail := p.overlapTail(current)
			if tail != "" {
				current = tail + sentenceDelimiter + sentence
			} else {
				current = sentence
			}
			index++
		} else {
			current = potential
		}
	}

	// The final buffer is always flushed, even under size.
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, domain.PageChunk{
			Text:       strings.TrimSpace(current),
			Page:       page,
			ChunkIndex: index,
		})
	}

	return chunks
}

// overlapTail returns the last overlap characters of text, trimmed back
// to the nearest preceding sentence boundary when one exists within the
// tail.
func (p *Processor) overlapTail(text string) string {
	runes := []rune(text)
	if len(runes) <= p.overlap {
		return text
	}

	tail := string(runes[len(runes)-p.overlap:])

	if boundary := strings.LastIndex(tail, sentenceDelimiter); boundary > 0 {
		tail = tail[boundary+len(sentenceDelimiter):]
	}

	return strings.TrimSpace(tail)
}
