// Package memory implements the agent's three-source memory subsystem.
//
// Three representations back each conversation:
//   - DialogueLog: append-only short-term record of exchanged messages
//   - SalientCache: key-value cache of short facts with recency metadata
//   - KnowledgeBundle: per-query retrieval results from a vector index of
//     pre-chunked domain text
//
// The Manager owns one DialogueLog and one SalientCache per
// (user, persona) pair, persists them through a Store after every append,
// and deterministically fuses all three sources plus the persona
// instruction into a single generation prompt.
//
// Backends are capability interfaces so tests can substitute in-memory
// fakes without touching the Manager:
//   - Store: snapshot persistence (memory/store/file)
//   - Retriever + Index: knowledge search and ingestion
//     (memory/retriever/chromem)
//   - Embedder: text-to-vector conversion (memory/embedder/mock,
//     memory/embedder/onnx)
//
// Shared snapshot files and the knowledge index carry no locking
// discipline: concurrent writers to the same (user, persona) key can race
// and silently overwrite each other. Sessions are single-threaded by
// design.
package memory
