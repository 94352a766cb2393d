// Package config provides the YAML application configuration. Every
// filesystem path the system touches is injected through here; nothing
// reads process-wide mutable state.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Memory    MemoryConfig    `yaml:"memory"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	LLM       LLMConfig       `yaml:"llm"`
}

// ServerConfig holds the chat server settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g. ":8080").
	ListenAddr string `yaml:"listen_addr"`
}

// MemoryConfig holds snapshot persistence and fusion settings.
type MemoryConfig struct {
	// SnapshotDir is where dialogue and salient snapshots are stored.
	SnapshotDir string `yaml:"snapshot_dir"`

	// DialogueWindow is the number of recent messages in the fused prompt.
	DialogueWindow int `yaml:"dialogue_window"`

	// TopK is the number of knowledge results requested per query.
	TopK int `yaml:"top_k"`

	// RetrieveTimeoutSeconds bounds each knowledge-index round trip.
	RetrieveTimeoutSeconds int `yaml:"retrieve_timeout_seconds"`
}

// KnowledgeConfig holds vector index and embedder settings.
type KnowledgeConfig struct {
	// IndexPath is the on-disk chromem database location. Empty keeps the
	// index in memory.
	IndexPath string `yaml:"index_path"`

	// Embedder selects the embedding provider: "mock" or "onnx".
	Embedder string `yaml:"embedder"`

	// ONNX embedder paths; required only when Embedder is "onnx".
	ModelPath     string `yaml:"model_path"`
	TokenizerPath string `yaml:"tokenizer_path"`
	LibraryPath   string `yaml:"library_path"`
	Dimensions    int    `yaml:"dimensions"`
}

// LLMConfig holds generation backend settings.
type LLMConfig struct {
	// Provider selects the backend: "anthropic" or "mock".
	Provider string `yaml:"provider"`

	// Model names the provider model. Empty uses the provider default.
	Model string `yaml:"model"`

	// MaxTokens caps response length. Zero uses the provider default.
	MaxTokens int64 `yaml:"max_tokens"`

	// GenerateTimeoutSeconds bounds each generation round trip.
	GenerateTimeoutSeconds int `yaml:"generate_timeout_seconds"`
}

// Default returns a runnable offline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{ListenAddr: ":8080"},
		Memory: MemoryConfig{
			SnapshotDir:            "data/memory_store",
			DialogueWindow:         5,
			TopK:                   3,
			RetrieveTimeoutSeconds: 10,
		},
		Knowledge: KnowledgeConfig{
			IndexPath: "data/knowledge_index",
			Embedder:  "mock",
		},
		LLM: LLMConfig{
			Provider:               "mock",
			GenerateTimeoutSeconds: 60,
		},
	}
}

// Load reads the YAML configuration file at path and returns a validated
// Config. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills defaults for unset
// fields, and validates the result. Unknown fields are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns
// a joined error listing all failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Memory.SnapshotDir == "" {
		errs = append(errs, fmt.Errorf("memory.snapshot_dir is required"))
	}
	if cfg.Memory.DialogueWindow <= 0 {
		errs = append(errs, fmt.Errorf("memory.dialogue_window must be positive"))
	}
	if cfg.Memory.TopK <= 0 {
		errs = append(errs, fmt.Errorf("memory.top_k must be positive"))
	}

	switch cfg.Knowledge.Embedder {
	case "mock":
	case "onnx":
		if cfg.Knowledge.ModelPath == "" {
			errs = append(errs, fmt.Errorf("knowledge.model_path is required for the onnx embedder"))
		}
		if cfg.Knowledge.TokenizerPath == "" {
			errs = append(errs, fmt.Errorf("knowledge.tokenizer_path is required for the onnx embedder"))
		}
	default:
		errs = append(errs, fmt.Errorf("knowledge.embedder %q is invalid; valid values: mock, onnx", cfg.Knowledge.Embedder))
	}

	switch cfg.LLM.Provider {
	case "mock", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q is invalid; valid values: mock, anthropic", cfg.LLM.Provider))
	}

	return errors.Join(errs...)
}
