//go:build onnx

package main

import (
	"github.com/personakit/personakit/config"
	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/memory/embedder/onnx"
)

func newONNXEmbedder(cfg config.KnowledgeConfig) (memory.Embedder, error) {
	return onnx.New(onnx.Config{
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		LibraryPath:   cfg.LibraryPath,
		Dimensions:    cfg.Dimensions,
	})
}
