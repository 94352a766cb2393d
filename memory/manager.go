package memory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/personakit/personakit/persona"
)

// Config holds Manager tuning knobs.
type Config struct {
	// DialogueWindow is how many recent messages the fused prompt includes.
	DialogueWindow int

	// TopK is how many knowledge results are requested per query.
	TopK int

	// RetrieveTimeout bounds each knowledge-index round trip.
	// Zero disables the bound.
	RetrieveTimeout time.Duration
}

// DefaultConfig returns a fresh copy of the standard fusion parameters.
func DefaultConfig() *Config {
	return &Config{
		DialogueWindow:  5,
		TopK:            3,
		RetrieveTimeout: 10 * time.Second,
	}
}

// Manager is the memory coordinator. It exclusively owns one DialogueLog
// and one SalientCache per (user, persona) session, persists them through
// the Store, and fuses all three memory sources into a generation prompt.
//
// Manager is single-session: one query is fully processed before the next
// is accepted, and no internal locking is performed.
type Manager struct {
	userID    string
	persona   *persona.Config
	store     Store
	retriever Retriever
	config    *Config

	dialogue *DialogueLog
	salient  *SalientCache
}

// NewManager loads (or creates) the session's memory state and returns a
// ready coordinator. retriever may be nil for personas without knowledge.
func NewManager(userID string, p *persona.Config, store Store, retriever Retriever, cfg *Config) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	dialogue, err := store.LoadDialogue(userID, p.PersonaID)
	if err != nil {
		return nil, fmt.Errorf("load dialogue: %w", err)
	}
	salient, err := store.LoadCache(userID, p.PersonaID)
	if err != nil {
		return nil, fmt.Errorf("load salient cache: %w", err)
	}

	return &Manager{
		userID:    userID,
		persona:   p,
		store:     store,
		retriever: retriever,
		config:    cfg,
		dialogue:  dialogue,
		salient:   salient,
	}, nil
}

// Dialogue returns the session's dialogue log.
func (m *Manager) Dialogue() *DialogueLog {
	return m.dialogue
}

// Salient returns the session's salient cache.
func (m *Manager) Salient() *SalientCache {
	return m.salient
}

// AddDialogue appends one message and persists the full log immediately.
// A persistence failure fails the current turn; no retry is attempted.
func (m *Manager) AddDialogue(sender Sender, content string) error {
	m.dialogue.Append(sender, content)
	if err := m.store.SaveDialogue(m.dialogue); err != nil {
		return fmt.Errorf("save dialogue: %w", err)
	}
	return nil
}

// SetSalient stores one fact and persists the whole cache.
func (m *Manager) SetSalient(key string, value any) error {
	m.salient.Set(key, value)
	if err := m.store.SaveCache(m.salient); err != nil {
		return fmt.Errorf("save salient cache: %w", err)
	}
	return nil
}

// RetrieveKnowledge queries the knowledge index for passages relevant to
// query. Personas without a knowledge ID, a missing retriever, and index
// failures all yield an empty bundle.
func (m *Manager) RetrieveKnowledge(ctx context.Context, query string) KnowledgeBundle {
	if m.persona.KnowledgeID == "" || m.retriever == nil {
		log.Printf("[MEMORY] persona %q has no knowledge index; skipping retrieval", m.persona.PersonaID)
		return KnowledgeBundle{}
	}
	if m.config.RetrieveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.RetrieveTimeout)
		defer cancel()
	}
	return m.retriever.Retrieve(ctx, query, m.persona.KnowledgeID, m.config.TopK)
}

// Fuse assembles the final generation prompt from all memory sources, in
// this fixed order: persona instruction, salient cache, recent dialogue,
// retrieved knowledge, then the query with a closing instruction. The
// order is a correctness contract; generation quality depends on
// instruction primacy and recency before relevance.
//
// Fuse is read-only with respect to persistence: it triggers a retrieval
// call but never writes memory state. Appending the resulting exchange to
// the dialogue log is the caller's job.
func (m *Manager) Fuse(ctx context.Context, query string) string {
	var sb strings.Builder

	sb.WriteString("Your identity and core instructions:\n")
	sb.WriteString(m.persona.SystemPrompt)
	sb.WriteString("\n\n")

	sb.WriteString(m.formatSalient())
	sb.WriteString(m.formatDialogue())
	sb.WriteString(m.RetrieveKnowledge(ctx, query).Format())

	fmt.Fprintf(&sb, "The user's current question is: %s\n\n", query)
	sb.WriteString("Using all of the above, answer as your configured persona with a professional, personalised, and coherent response.")

	return sb.String()
}

// formatSalient renders the salient cache block in insertion order.
func (m *Manager) formatSalient() string {
	items := m.salient.Snapshot()
	if len(items) == 0 {
		return "No salient memory.\n"
	}

	var sb strings.Builder
	sb.WriteString("--- Salient Memory (preferences / recent facts) ---\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "%s: %v (last accessed: %s)\n",
			item.Key, item.Value, item.LastAccessed.Format("2006-01-02 15:04"))
	}
	sb.WriteString("---------------------------------------------------\n")
	return sb.String()
}

// formatDialogue renders the fixed window of recent messages with explicit
// separators so the generation backend can delimit the block.
func (m *Manager) formatDialogue() string {
	var sb strings.Builder
	sb.WriteString("--- Recent Dialogue ---\n")
	for _, msg := range m.dialogue.Recent(m.config.DialogueWindow) {
		fmt.Fprintf(&sb, "[%s] %s: %s\n",
			msg.Timestamp.Format("15:04"), capitalize(string(msg.Sender)), msg.Content)
	}
	sb.WriteString("-----------------------\n")
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
