//go:build !onnx

package main

import (
	"fmt"

	"github.com/personakit/personakit/config"
	"github.com/personakit/personakit/memory"
)

func newONNXEmbedder(config.KnowledgeConfig) (memory.Embedder, error) {
	return nil, fmt.Errorf("onnx embedder requires building with -tags onnx")
}
