package file_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/memory/store/file"
)

func TestDialogueRoundTrip(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dlog := memory.NewDialogueLog("user1", "persona1")
	dlog.Append(memory.SenderUser, "I feel tired lately, any advice?")
	dlog.Append(memory.SenderAssistant, "Let's look at your sleep and diet.")

	if err := store.SaveDialogue(dlog); err != nil {
		t.Fatalf("SaveDialogue: %v", err)
	}

	loaded, err := store.LoadDialogue("user1", "persona1")
	if err != nil {
		t.Fatalf("LoadDialogue: %v", err)
	}

	if loaded.Len() != dlog.Len() {
		t.Fatalf("loaded %d messages, want %d", loaded.Len(), dlog.Len())
	}
	for i := range dlog.Messages {
		want, got := dlog.Messages[i], loaded.Messages[i]
		if got.Sender != want.Sender {
			t.Errorf("message %d sender = %q, want %q", i, got.Sender, want.Sender)
		}
		if got.Content != want.Content {
			t.Errorf("message %d content = %q, want %q", i, got.Content, want.Content)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("message %d timestamp = %v, want %v", i, got.Timestamp, want.Timestamp)
		}
	}
}

func TestCacheRoundTripKeepsOrder(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cache := memory.NewSalientCache("user1", "persona1")
	cache.Set("preferred_food", "light and low-oil")
	cache.Set("upcoming_trip", "business trip next week")

	if err := store.SaveCache(cache); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	loaded, err := store.LoadCache("user1", "persona1")
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}

	items := loaded.Snapshot()
	if len(items) != 2 {
		t.Fatalf("loaded %d items, want 2", len(items))
	}
	if items[0].Key != "preferred_food" || items[1].Key != "upcoming_trip" {
		t.Errorf("insertion order lost: [%s, %s]", items[0].Key, items[1].Key)
	}
	if value, ok := loaded.Get("preferred_food"); !ok || value != "light and low-oil" {
		t.Errorf("Get(preferred_food) = (%v, %v)", value, ok)
	}
}

func TestLoadOrCreateOnFreshKey(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dlog, err := store.LoadDialogue("never_seen", "persona1")
	if err != nil {
		t.Fatalf("LoadDialogue on fresh key: %v", err)
	}
	if dlog.UserID != "never_seen" || dlog.PersonaID != "persona1" {
		t.Errorf("fresh log owner key = (%s, %s)", dlog.UserID, dlog.PersonaID)
	}
	if dlog.Len() != 0 {
		t.Errorf("fresh log has %d messages, want 0", dlog.Len())
	}

	cache, err := store.LoadCache("never_seen", "persona1")
	if err != nil {
		t.Fatalf("LoadCache on fresh key: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("fresh cache has %d items, want 0", cache.Len())
	}
}

func TestDistinctOwnerKeysDoNotCollide(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a := memory.NewDialogueLog("alice", "persona1")
	a.Append(memory.SenderUser, "alice speaking")
	b := memory.NewDialogueLog("bob", "persona1")
	b.Append(memory.SenderUser, "bob speaking")
	c := memory.NewDialogueLog("alice", "persona2")
	c.Append(memory.SenderUser, "alice, different persona")

	for _, dlog := range []*memory.DialogueLog{a, b, c} {
		if err := store.SaveDialogue(dlog); err != nil {
			t.Fatalf("SaveDialogue: %v", err)
		}
	}

	loaded, err := store.LoadDialogue("alice", "persona1")
	if err != nil {
		t.Fatalf("LoadDialogue: %v", err)
	}
	if loaded.Len() != 1 || loaded.Messages[0].Content != "alice speaking" {
		t.Errorf("alice/persona1 snapshot was overwritten: %+v", loaded.Messages)
	}
}

func TestSeparatorBearingIDsDoNotCollide(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Without escaping, (user c, persona a_b) and (user b_c, persona a)
	// would both flatten to the same storage key.
	a := memory.NewDialogueLog("c", "a_b")
	a.Append(memory.SenderUser, "owner A speaking")
	b := memory.NewDialogueLog("b_c", "a")
	b.Append(memory.SenderUser, "owner B speaking")

	for _, dlog := range []*memory.DialogueLog{a, b} {
		if err := store.SaveDialogue(dlog); err != nil {
			t.Fatalf("SaveDialogue: %v", err)
		}
	}

	loaded, err := store.LoadDialogue("c", "a_b")
	if err != nil {
		t.Fatalf("LoadDialogue: %v", err)
	}
	if loaded.Len() != 1 || loaded.Messages[0].Content != "owner A speaking" {
		t.Errorf("distinct owner keys collided: owner A now reads %+v", loaded.Messages)
	}
}

func TestPathSeparatorsInIDsStayUnderBaseDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "store")
	store, err := file.New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dlog := memory.NewDialogueLog("../escapee", "persona/one")
	dlog.Append(memory.SenderUser, "contained")
	if err := store.SaveDialogue(dlog); err != nil {
		t.Fatalf("SaveDialogue: %v", err)
	}

	loaded, err := store.LoadDialogue("../escapee", "persona/one")
	if err != nil {
		t.Fatalf("LoadDialogue: %v", err)
	}
	if loaded.Len() != 1 || loaded.Messages[0].Content != "contained" {
		t.Errorf("round trip failed for separator-bearing IDs: %+v", loaded.Messages)
	}

	var outside []string
	err = filepath.WalkDir(parent, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && !strings.HasPrefix(path, dir+string(filepath.Separator)) {
			outside = append(outside, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(outside) != 0 {
		t.Errorf("snapshots written outside the base directory: %v", outside)
	}
}

func TestUnparseableSnapshotBehavesLikeMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := file.New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "persona1"), 0o755); err != nil {
		t.Fatalf("create persona dir: %v", err)
	}
	path := filepath.Join(dir, "persona1", "user1_dialogue.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt snapshot: %v", err)
	}

	dlog, err := store.LoadDialogue("user1", "persona1")
	if err != nil {
		t.Fatalf("LoadDialogue on corrupt snapshot: %v", err)
	}
	if dlog.Len() != 0 {
		t.Errorf("corrupt snapshot produced %d messages, want a fresh empty log", dlog.Len())
	}
}

func TestSaveReplacesWholeSnapshot(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dlog := memory.NewDialogueLog("user1", "persona1")
	dlog.Append(memory.SenderUser, "one")
	store.SaveDialogue(dlog)
	dlog.Append(memory.SenderAssistant, "two")
	store.SaveDialogue(dlog)

	loaded, err := store.LoadDialogue("user1", "persona1")
	if err != nil {
		t.Fatalf("LoadDialogue: %v", err)
	}
	if loaded.Len() != 2 {
		t.Errorf("loaded %d messages, want the full rewritten log (2)", loaded.Len())
	}
}
