package main

import (
	"fmt"
	"os"
	"time"

	"github.com/personakit/personakit/config"
	"github.com/personakit/personakit/llm"
	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/memory/embedder/mock"
	chromemret "github.com/personakit/personakit/memory/retriever/chromem"
	filestore "github.com/personakit/personakit/memory/store/file"
)

// deps is everything a command needs wired from the application config.
type deps struct {
	cfg       *config.Config
	store     memory.Store
	retriever *chromemret.Retriever
	connector llm.Connector
	memCfg    *memory.Config
}

func (d *deps) generateTimeout() time.Duration {
	return time.Duration(d.cfg.LLM.GenerateTimeoutSeconds) * time.Second
}

func (d *deps) close() {
	if d.retriever != nil {
		d.retriever.Close()
	}
}

// buildDeps loads the app config and constructs the store, retriever, and
// generation backend it describes.
func buildDeps() (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store, err := filestore.New(cfg.Memory.SnapshotDir)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	retriever, err := chromemret.New(chromemret.Config{Path: cfg.Knowledge.IndexPath}, embedder)
	if err != nil {
		return nil, err
	}

	connector, err := buildConnector(cfg)
	if err != nil {
		retriever.Close()
		return nil, err
	}

	return &deps{
		cfg:       cfg,
		store:     store,
		retriever: retriever,
		connector: connector,
		memCfg: &memory.Config{
			DialogueWindow:  cfg.Memory.DialogueWindow,
			TopK:            cfg.Memory.TopK,
			RetrieveTimeout: time.Duration(cfg.Memory.RetrieveTimeoutSeconds) * time.Second,
		},
	}, nil
}

func buildEmbedder(cfg *config.Config) (memory.Embedder, error) {
	switch cfg.Knowledge.Embedder {
	case "", "mock":
		return mock.New(), nil
	case "onnx":
		return newONNXEmbedder(cfg.Knowledge)
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Knowledge.Embedder)
	}
}

func buildConnector(cfg *config.Config) (llm.Connector, error) {
	switch cfg.LLM.Provider {
	case "", "mock":
		return llm.NewMock(), nil
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return llm.NewAnthropic(apiKey, cfg.LLM.Model, cfg.LLM.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
