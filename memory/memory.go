package memory

import "context"

// Store is the durable snapshot backend for dialogue logs and salient
// caches, keyed by (user ID, persona ID).
//
// Load methods have load-or-create semantics: if no snapshot exists at the
// computed key they return a fresh, empty instance scoped to that key.
// "Never seen" and "unreadable" are indistinguishable at this layer.
// Save methods replace the whole snapshot; writes are never incremental.
type Store interface {
	LoadDialogue(userID, personaID string) (*DialogueLog, error)
	SaveDialogue(log *DialogueLog) error
	LoadCache(userID, personaID string) (*SalientCache, error)
	SaveCache(cache *SalientCache) error
}

// Retriever is a stateless query facade over an externally populated
// knowledge index.
//
// Retrieve never fails to the caller: a missing collection, an empty query,
// or an index-level error all degrade to an empty bundle. Results are
// ordered by descending score; ties keep the index's native return order.
type Retriever interface {
	Retrieve(ctx context.Context, query, knowledgeID string, topK int) KnowledgeBundle
}

// Chunk is one pre-split passage headed for the knowledge index.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// Index is the offline ingestion side of the knowledge index. Upsert
// clears and replaces all existing content under knowledgeID.
type Index interface {
	Upsert(ctx context.Context, knowledgeID string, chunks []Chunk) error
}

// Embedder converts text to vector embeddings.
// Implementations: mock (deterministic, for tests/dev), onnx (all-MiniLM-L6-v2).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
