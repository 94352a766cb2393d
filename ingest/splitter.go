package ingest

import (
	"fmt"
	"strings"
)

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Options configures chunking behavior. ChunkSize and Overlap are in
// runes so multi-byte text never splits mid-character.
type Options struct {
	ChunkSize int
	Overlap   int
}

// DefaultOptions returns the standard chunking parameters.
func DefaultOptions() Options {
	return Options{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
	}
}

// Validate checks that the chunking parameters are coherent. Overlap must
// be strictly smaller than ChunkSize or chunking could not make progress.
func (o Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", o.ChunkSize)
	}
	if o.Overlap < 0 || o.Overlap >= o.ChunkSize {
		return fmt.Errorf("overlap must be in [0, chunk size), got %d with chunk size %d", o.Overlap, o.ChunkSize)
	}
	return nil
}

// Split cuts text into fixed-size chunks where each chunk after the first
// starts Overlap runes before the previous chunk ends. Text at most one
// chunk long returns a single chunk; empty text returns nil.
//
// Split assumes opts passed Validate; a zero-value opts uses the
// defaults.
func Split(text string, opts Options) []string {
	if opts.ChunkSize <= 0 {
		opts = DefaultOptions()
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= opts.ChunkSize {
		return []string{string(runes)}
	}

	step := opts.ChunkSize - opts.Overlap
	if step <= 0 {
		step = opts.ChunkSize
	}
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + opts.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
