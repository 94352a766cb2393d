package memory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/personakit/personakit/memory"
)

func TestSalientSetThenGet(t *testing.T) {
	cache := memory.NewSalientCache("user1", "persona1")

	before := time.Now()
	cache.Set("preferred_food", "light and low-oil")

	value, ok := cache.Get("preferred_food")
	if !ok {
		t.Fatal("Get after Set reported absent")
	}
	if value != "light and low-oil" {
		t.Errorf("Get = %v, want the value just set", value)
	}

	items := cache.Snapshot()
	if len(items) != 1 {
		t.Fatalf("Snapshot has %d items, want 1", len(items))
	}
	if items[0].LastAccessed.Before(before) {
		t.Errorf("last accessed %v predates the Set call at %v", items[0].LastAccessed, before)
	}
}

func TestSalientAbsentKey(t *testing.T) {
	cache := memory.NewSalientCache("user1", "persona1")

	if _, ok := cache.Get("never_set"); ok {
		t.Error("Get on absent key reported present")
	}

	// A stored nil must be distinguishable from an absent key.
	cache.Set("explicit_nil", nil)
	value, ok := cache.Get("explicit_nil")
	if !ok {
		t.Error("Get on stored nil reported absent")
	}
	if value != nil {
		t.Errorf("Get on stored nil = %v, want nil", value)
	}
}

func TestSalientGetRefreshesLastAccessed(t *testing.T) {
	cache := memory.NewSalientCache("user1", "persona1")
	cache.Set("k", "v")
	setTime := cache.Snapshot()[0].LastAccessed

	time.Sleep(5 * time.Millisecond)
	cache.Get("k")

	if got := cache.Snapshot()[0].LastAccessed; !got.After(setTime) {
		t.Errorf("Get did not refresh last accessed: %v not after %v", got, setTime)
	}
}

func TestSalientSnapshotDoesNotRefresh(t *testing.T) {
	cache := memory.NewSalientCache("user1", "persona1")
	cache.Set("k", "v")
	first := cache.Snapshot()[0].LastAccessed

	time.Sleep(5 * time.Millisecond)
	if got := cache.Snapshot()[0].LastAccessed; !got.Equal(first) {
		t.Errorf("Snapshot mutated last accessed: %v != %v", got, first)
	}
}

func TestSalientInsertionOrder(t *testing.T) {
	cache := memory.NewSalientCache("user1", "persona1")
	cache.Set("zebra", 1)
	cache.Set("apple", 2)
	cache.Set("mango", 3)
	// Overwriting keeps the original position.
	cache.Set("zebra", 4)

	want := []string{"zebra", "apple", "mango"}
	items := cache.Snapshot()
	if len(items) != len(want) {
		t.Fatalf("Snapshot has %d items, want %d", len(items), len(want))
	}
	for i, key := range want {
		if items[i].Key != key {
			t.Errorf("Snapshot[%d].Key = %q, want %q", i, items[i].Key, key)
		}
	}
	if items[0].Value != 4 {
		t.Errorf("overwritten value = %v, want 4", items[0].Value)
	}
}

func TestSalientJSONRoundTripKeepsOrder(t *testing.T) {
	cache := memory.NewSalientCache("user1", "persona1")
	cache.Set("first", "1")
	cache.Set("second", "2")
	cache.Set("third", "3")

	data, err := json.Marshal(cache)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := memory.NewSalientCache("", "")
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if restored.UserID != "user1" || restored.PersonaID != "persona1" {
		t.Errorf("owner key = (%s, %s), want (user1, persona1)", restored.UserID, restored.PersonaID)
	}

	want := []string{"first", "second", "third"}
	for i, item := range restored.Snapshot() {
		if item.Key != want[i] {
			t.Errorf("restored order[%d] = %q, want %q", i, item.Key, want[i])
		}
	}
}
