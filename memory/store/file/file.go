// Package file persists memory snapshots as JSON files, one file per
// (owner key, memory kind). Snapshots are human-inspectable and are
// overwritten wholesale on every save.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/personakit/personakit/memory"
)

// Store is a file-backed memory.Store rooted at a single directory. The
// directory is injected configuration, never a process-wide global.
//
// There is no locking discipline: concurrent writers to the same owner
// key can race and silently overwrite each other's snapshot. Sessions are
// expected to be exclusive per (user, persona) pair.
type Store struct {
	baseDir string
}

// New creates the snapshot directory if needed and returns a Store.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("file store: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create %q: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// path derives the storage key: one subdirectory per persona, one file
// per (user, kind) inside it. Both IDs are escaped so distinct owner
// keys never collide and the same key resolves to the same file across
// process restarts.
func (s *Store) path(userID, personaID, kind string) string {
	return filepath.Join(s.baseDir, escapeID(personaID), fmt.Sprintf("%s_%s.json", escapeID(userID), kind))
}

// escapeID makes an ID safe as a single path element. Separator and
// percent characters are percent-encoded, so the encoding is injective
// and an ID like "../x" cannot traverse out of the base directory.
func escapeID(id string) string {
	id = strings.NewReplacer("%", "%25", "/", "%2F", "\\", "%5C").Replace(id)
	switch id {
	case ".":
		return "%2E"
	case "..":
		return "%2E."
	}
	return id
}

// LoadDialogue returns the stored dialogue log for the owner key, or a
// fresh empty log if no snapshot exists. A snapshot that cannot be read
// or parsed is treated the same as a missing one; corruption detection is
// a non-goal at this layer.
func (s *Store) LoadDialogue(userID, personaID string) (*memory.DialogueLog, error) {
	path := s.path(userID, personaID, "dialogue")
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[STORE] unreadable dialogue snapshot %q, starting fresh: %v", path, err)
		}
		return memory.NewDialogueLog(userID, personaID), nil
	}

	var dlog memory.DialogueLog
	if err := json.Unmarshal(data, &dlog); err != nil {
		log.Printf("[STORE] unparseable dialogue snapshot %q, starting fresh: %v", path, err)
		return memory.NewDialogueLog(userID, personaID), nil
	}
	return &dlog, nil
}

// SaveDialogue serializes the full log to its storage key, replacing any
// prior snapshot.
func (s *Store) SaveDialogue(dlog *memory.DialogueLog) error {
	return s.write(s.path(dlog.UserID, dlog.PersonaID, "dialogue"), dlog)
}

// LoadCache returns the stored salient cache for the owner key, or a
// fresh empty cache if no snapshot exists. Unreadable snapshots behave
// like missing ones.
func (s *Store) LoadCache(userID, personaID string) (*memory.SalientCache, error) {
	path := s.path(userID, personaID, "salient")
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[STORE] unreadable salient snapshot %q, starting fresh: %v", path, err)
		}
		return memory.NewSalientCache(userID, personaID), nil
	}

	cache := memory.NewSalientCache(userID, personaID)
	if err := json.Unmarshal(data, cache); err != nil {
		log.Printf("[STORE] unparseable salient snapshot %q, starting fresh: %v", path, err)
		return memory.NewSalientCache(userID, personaID), nil
	}
	return cache, nil
}

// SaveCache serializes the whole cache to its storage key.
func (s *Store) SaveCache(cache *memory.SalientCache) error {
	return s.write(s.path(cache.UserID, cache.PersonaID, "salient"), cache)
}

func (s *Store) write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("file store: create persona dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("file store: write %q: %w", path, err)
	}
	return nil
}
