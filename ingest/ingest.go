// Package ingest is the offline batch pipeline that feeds the knowledge
// index: load a text source, split it into fixed-size overlapping chunks,
// and hand the chunks to the index for embedding and storage.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/personakit/personakit/memory"
)

// IndexFile loads the text file at path, chunks it, and upserts the
// chunks into the index under knowledgeID, replacing any prior content
// for that ID. It returns the number of chunks indexed.
func IndexFile(ctx context.Context, idx memory.Index, knowledgeID, path string, opts Options) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("ingest: read %q: %w", path, err)
	}
	return IndexText(ctx, idx, knowledgeID, filepath.Base(path), string(data), opts)
}

// IndexText chunks text and upserts it under knowledgeID. source is
// recorded in each chunk's metadata and surfaces in retrieval results.
func IndexText(ctx context.Context, idx memory.Index, knowledgeID, source, text string, opts Options) (int, error) {
	if knowledgeID == "" {
		return 0, fmt.Errorf("ingest: knowledge ID is required")
	}
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}

	pieces := Split(text, opts)
	chunks := make([]memory.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, memory.Chunk{
			Text: piece,
			Metadata: map[string]string{
				"source":      source,
				"chunk_index": strconv.Itoa(i),
			},
		})
	}

	if err := idx.Upsert(ctx, knowledgeID, chunks); err != nil {
		return 0, fmt.Errorf("ingest: upsert into %q: %w", knowledgeID, err)
	}

	log.Printf("[INGEST] indexed %d chunks from %q into %q", len(chunks), source, knowledgeID)
	return len(chunks), nil
}
