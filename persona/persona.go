// Package persona loads the static identity configuration an agent
// role-plays under. A persona is loaded once at startup and is read-only
// for the lifetime of the session.
package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config describes one persona. PersonaID is the stable identifier used
// as the namespace key for persisted memory and knowledge retrieval.
type Config struct {
	PersonaID    string         `json:"persona_id"`
	Name         string         `json:"name"`
	SystemPrompt string         `json:"system_prompt"`
	KnowledgeID  string         `json:"knowledge_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Load reads and validates a persona config from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persona: read %q: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("persona: parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("persona: %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the required fields. KnowledgeID is optional: a persona
// without domain knowledge is valid and simply skips retrieval.
func (c *Config) Validate() error {
	if c.PersonaID == "" {
		return fmt.Errorf("persona_id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	return nil
}

// WriteDefault writes an example persona config to path, creating parent
// directories as needed. Useful for first-run scaffolding.
func WriteDefault(path string) error {
	cfg := Config{
		PersonaID: "default_health_advisor",
		Name:      "Personal Health Advisor",
		SystemPrompt: "You are a personal health advisor with ten years of experience. " +
			"Your answers must be professional and rigorous, yet warm and personable. " +
			"You tailor advice to the user's health data and habits. Your role is to " +
			"inform and advise, never to diagnose or prescribe.",
		KnowledgeID: "health_knowledge_v1",
		Metadata: map[string]any{
			"version": "1.0",
		},
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persona: create config dir: %w", err)
	}
	data, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("persona: marshal default: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persona: write %q: %w", path, err)
	}
	return nil
}
