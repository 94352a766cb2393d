// Package chromem backs the knowledge retriever with chromem-go, an
// embedded pure-Go vector database. One chromem collection per knowledge
// ID; collections are populated offline through Upsert and queried online
// through Retrieve.
package chromem

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/personakit/personakit/memory"
)

// Config configures the retriever.
type Config struct {
	// Path is the on-disk index location. Empty keeps the index in memory,
	// which is useful for tests and demos.
	Path string

	// Compress gzips persisted collections.
	Compress bool
}

// Retriever implements memory.Retriever and memory.Index over chromem-go.
// It owns no per-user state; the index it queries is shared and scoped by
// knowledge ID.
type Retriever struct {
	db       *chromem.DB
	embedder memory.Embedder

	// queryCache memoizes query-text embeddings so repeated queries skip
	// the embedder round trip.
	queryCache *ristretto.Cache
}

// New opens (or creates) the index and returns a retriever.
func New(cfg Config, embedder memory.Embedder) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("chromem retriever: embedder is required")
	}

	var db *chromem.DB
	var err error
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("chromem retriever: open %q: %w", cfg.Path, err)
		}
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     16 << 20, // 16 MiB of cached embeddings
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("chromem retriever: embedding cache: %w", err)
	}

	return &Retriever{
		db:         db,
		embedder:   embedder,
		queryCache: cache,
	}, nil
}

// Retrieve performs a nearest-neighbour search over the collection named
// by knowledgeID and returns up to topK results ordered by descending
// score. Scores are 1 - distance: chromem reports cosine similarity,
// which is exactly that conversion, and the value is an ordering hint
// rather than a calibrated probability.
//
// Retrieve never fails to the caller. A missing collection means the
// persona simply has no domain knowledge; an index-level error is logged
// and downgraded to an empty bundle.
func (r *Retriever) Retrieve(ctx context.Context, query, knowledgeID string, topK int) memory.KnowledgeBundle {
	if knowledgeID == "" || topK <= 0 {
		return memory.KnowledgeBundle{}
	}

	col := r.db.GetCollection(knowledgeID, nil)
	if col == nil {
		log.Printf("[CHROMEM] collection %q not found; returning empty bundle", knowledgeID)
		return memory.KnowledgeBundle{}
	}

	embedding, err := r.embedQuery(ctx, query)
	if err != nil {
		log.Printf("[CHROMEM] embed query failed: %v", err)
		return memory.KnowledgeBundle{}
	}

	// chromem rejects nResults larger than the collection.
	n := topK
	if count := col.Count(); count < n {
		n = count
	}
	if n == 0 {
		return memory.KnowledgeBundle{}
	}

	results, err := col.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		log.Printf("[CHROMEM] query %q failed: %v", knowledgeID, err)
		return memory.KnowledgeBundle{}
	}

	bundle := memory.KnowledgeBundle{Results: make([]memory.KnowledgeResult, 0, len(results))}
	for _, res := range results {
		bundle.Results = append(bundle.Results, memory.KnowledgeResult{
			Content: res.Content,
			Source:  res.Metadata["source"],
			Score:   float64(res.Similarity),
		})
	}

	// chromem already returns descending similarity; the stable sort pins
	// the contract while leaving ties in the index's native order.
	sort.SliceStable(bundle.Results, func(i, j int) bool {
		return bundle.Results[i].Score > bundle.Results[j].Score
	})

	return bundle
}

// Upsert clears and replaces all content stored under knowledgeID. This
// is the offline half of the knowledge-index contract, fed by the
// ingestion pipeline.
func (r *Retriever) Upsert(ctx context.Context, knowledgeID string, chunks []memory.Chunk) error {
	if knowledgeID == "" {
		return fmt.Errorf("chromem retriever: knowledge ID is required")
	}

	if col := r.db.GetCollection(knowledgeID, nil); col != nil {
		if err := r.db.DeleteCollection(knowledgeID); err != nil {
			return fmt.Errorf("chromem retriever: clear %q: %w", knowledgeID, err)
		}
		log.Printf("[CHROMEM] cleared existing collection %q", knowledgeID)
	}

	col, err := r.db.CreateCollection(knowledgeID, nil, nil)
	if err != nil {
		return fmt.Errorf("chromem retriever: create %q: %w", knowledgeID, err)
	}

	for i, chunk := range chunks {
		embedding, err := r.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("chromem retriever: embed chunk %d: %w", i, err)
		}
		doc := chromem.Document{
			ID:        uuid.New().String(),
			Content:   chunk.Text,
			Embedding: embedding,
			Metadata:  chunk.Metadata,
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("chromem retriever: add chunk %d: %w", i, err)
		}
	}

	log.Printf("[CHROMEM] indexed %d chunks into %q", len(chunks), knowledgeID)
	return nil
}

// Close releases the embedding cache. The chromem database itself holds
// no resources that need closing.
func (r *Retriever) Close() error {
	r.queryCache.Close()
	return nil
}

func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if cached, ok := r.queryCache.Get(query); ok {
		if embedding, ok := cached.([]float32); ok {
			return embedding, nil
		}
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	r.queryCache.Set(query, embedding, int64(len(embedding)*4))
	return embedding, nil
}
