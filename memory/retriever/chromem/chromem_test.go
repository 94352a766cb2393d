package chromem_test

import (
	"context"
	"testing"

	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/memory/embedder/mock"
	"github.com/personakit/personakit/memory/retriever/chromem"
)

func newTestRetriever(t *testing.T) *chromem.Retriever {
	t.Helper()
	r, err := chromem.New(chromem.Config{}, mock.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func seedHealthIndex(t *testing.T, r *chromem.Retriever) {
	t.Helper()
	err := r.Upsert(context.Background(), "health_kb", []memory.Chunk{
		{
			Text:     "Regular aerobic exercise supports heart health and steady energy levels.",
			Metadata: map[string]string{"source": "guide.txt", "chunk_index": "0"},
		},
		{
			Text:     "Corporate tax law requires quarterly filings for registered entities.",
			Metadata: map[string]string{"source": "tax.txt", "chunk_index": "1"},
		},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
}

func TestRetrieveOrdersByDescendingScore(t *testing.T) {
	r := newTestRetriever(t)
	seedHealthIndex(t, r)

	bundle := r.Retrieve(context.Background(), "heart health exercise advice", "health_kb", 3)
	if len(bundle.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(bundle.Results))
	}

	first, second := bundle.Results[0], bundle.Results[1]
	if first.Source != "guide.txt" {
		t.Errorf("best result came from %q, want the overlapping-vocabulary chunk (guide.txt)", first.Source)
	}
	if first.Score <= second.Score {
		t.Errorf("results not in descending score order: %.3f then %.3f", first.Score, second.Score)
	}
}

func TestRetrieveHonorsTopK(t *testing.T) {
	r := newTestRetriever(t)
	seedHealthIndex(t, r)

	bundle := r.Retrieve(context.Background(), "heart health exercise advice", "health_kb", 1)
	if len(bundle.Results) != 1 {
		t.Fatalf("top_k=1 returned %d results", len(bundle.Results))
	}
	if bundle.Results[0].Source != "guide.txt" {
		t.Errorf("top_k=1 kept %q, want the highest-scoring result", bundle.Results[0].Source)
	}
}

func TestRetrieveMissingCollectionIsEmptyNotError(t *testing.T) {
	r := newTestRetriever(t)

	bundle := r.Retrieve(context.Background(), "anything", "no_such_collection", 3)
	if !bundle.Empty() {
		t.Errorf("missing collection returned %d results, want empty bundle", len(bundle.Results))
	}
}

func TestRetrieveDegenerateArguments(t *testing.T) {
	r := newTestRetriever(t)
	seedHealthIndex(t, r)

	if got := r.Retrieve(context.Background(), "q", "", 3); !got.Empty() {
		t.Error("empty knowledge ID should yield an empty bundle")
	}
	if got := r.Retrieve(context.Background(), "q", "health_kb", 0); !got.Empty() {
		t.Error("top_k=0 should yield an empty bundle")
	}
}

func TestUpsertClearsAndReplaces(t *testing.T) {
	r := newTestRetriever(t)
	seedHealthIndex(t, r)

	err := r.Upsert(context.Background(), "health_kb", []memory.Chunk{
		{Text: "replacement content only", Metadata: map[string]string{"source": "new.txt"}},
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	bundle := r.Retrieve(context.Background(), "replacement content only", "health_kb", 5)
	if len(bundle.Results) != 1 {
		t.Fatalf("after replacement got %d results, want exactly 1", len(bundle.Results))
	}
	if bundle.Results[0].Content != "replacement content only" {
		t.Errorf("surviving content = %q", bundle.Results[0].Content)
	}
}

func TestRepeatedQueryUsesSameEmbedding(t *testing.T) {
	r := newTestRetriever(t)
	seedHealthIndex(t, r)

	first := r.Retrieve(context.Background(), "heart health exercise advice", "health_kb", 2)
	second := r.Retrieve(context.Background(), "heart health exercise advice", "health_kb", 2)

	if len(first.Results) != len(second.Results) {
		t.Fatalf("repeated query returned %d then %d results", len(first.Results), len(second.Results))
	}
	for i := range first.Results {
		if first.Results[i].Content != second.Results[i].Content {
			t.Errorf("repeated query diverged at result %d", i)
		}
	}
}
