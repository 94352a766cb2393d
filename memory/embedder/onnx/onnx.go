//go:build onnx

// Package onnx embeds text with a local all-MiniLM-L6-v2 model through
// ONNX Runtime. Build with the onnx tag and point Config at the model,
// tokenizer, and onnxruntime shared library.
package onnx

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	ort "github.com/yalue/onnxruntime_go"
)

const maxSequenceLength = 128

// Config configures the ONNX embedder.
type Config struct {
	// ModelPath locates the ONNX model file.
	ModelPath string

	// TokenizerPath locates the HuggingFace tokenizer.json.
	TokenizerPath string

	// LibraryPath locates libonnxruntime.so. Empty uses the
	// onnxruntime_go default lookup.
	LibraryPath string

	// Dimensions is the embedding size (default 384 for all-MiniLM-L6-v2).
	Dimensions int
}

// Embedder runs BERT-style tokenization plus ONNX inference with mean
// pooling over attended tokens.
type Embedder struct {
	session    *ort.DynamicAdvancedSession
	tokenizer  *wordPieceTokenizer
	dimensions int
}

// New initializes the ONNX runtime and loads the model and tokenizer.
func New(cfg Config) (*Embedder, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("onnx embedder: ModelPath is required")
	}
	if cfg.TokenizerPath == "" {
		return nil, fmt.Errorf("onnx embedder: TokenizerPath is required")
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("onnx embedder: initialize runtime: %w", err)
	}

	tokenizer, err := loadTokenizer(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("onnx embedder: load tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx embedder: create session: %w", err)
	}

	return &Embedder{
		session:    session,
		tokenizer:  tokenizer,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed converts text to a unit-normalized embedding vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := e.tokenizer.tokenize(text)

	inputIDs := make([]int64, maxSequenceLength)
	attentionMask := make([]int64, maxSequenceLength)
	tokenTypeIDs := make([]int64, maxSequenceLength)

	inputIDs[0] = e.tokenizer.clsID
	attentionMask[0] = 1

	// Reserve two slots for [CLS] and [SEP].
	if len(tokens) > maxSequenceLength-2 {
		tokens = tokens[:maxSequenceLength-2]
	}
	for i, id := range tokens {
		inputIDs[i+1] = id
		attentionMask[i+1] = 1
	}
	sepPos := len(tokens) + 1
	inputIDs[sepPos] = e.tokenizer.sepID
	attentionMask[sepPos] = 1

	shape := ort.NewShape(1, int64(maxSequenceLength))
	inputTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("onnx embedder: input_ids tensor: %w", err)
	}
	defer inputTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("onnx embedder: attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(shape, tokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("onnx embedder: token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{inputTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("onnx embedder: inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	if outputs[0] == nil {
		return nil, fmt.Errorf("onnx embedder: no output tensor returned")
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("onnx embedder: unexpected output tensor type")
	}

	embedding, err := e.pool(hidden, attentionMask)
	if err != nil {
		return nil, err
	}
	return normalize(embedding), nil
}

// pool reduces the model output to a single vector. Pre-pooled outputs
// ([1, dims]) pass through; hidden states ([1, seq, dims]) are mean-pooled
// over attended positions.
func (e *Embedder) pool(hidden *ort.Tensor[float32], attentionMask []int64) ([]float32, error) {
	data := hidden.GetData()
	shape := hidden.GetShape()

	switch len(shape) {
	case 2:
		if len(data) < e.dimensions {
			return nil, fmt.Errorf("onnx embedder: output has %d values, want %d", len(data), e.dimensions)
		}
		out := make([]float32, e.dimensions)
		copy(out, data[:e.dimensions])
		return out, nil

	case 3:
		seqLen, hiddenSize := int(shape[1]), int(shape[2])
		if shape[0] != 1 || hiddenSize != e.dimensions {
			return nil, fmt.Errorf("onnx embedder: unexpected output shape %v", shape)
		}

		out := make([]float32, hiddenSize)
		var attended float32
		for i := 0; i < seqLen && i < len(attentionMask); i++ {
			if attentionMask[i] == 0 {
				continue
			}
			attended++
			base := i * hiddenSize
			for j := 0; j < hiddenSize; j++ {
				out[j] += data[base+j]
			}
		}
		if attended == 0 {
			return out, nil
		}
		for j := range out {
			out[j] /= attended
		}
		return out, nil

	default:
		return nil, fmt.Errorf("onnx embedder: unexpected output shape %v", shape)
	}
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// wordPieceTokenizer is a minimal BERT WordPiece tokenizer backed by the
// vocab section of a HuggingFace tokenizer.json.
type wordPieceTokenizer struct {
	vocab map[string]int64
	clsID int64
	sepID int64
	unkID int64
}

func loadTokenizer(path string) (*wordPieceTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Model struct {
			Vocab map[string]int64 `json:"vocab"`
		} `json:"model"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Model.Vocab) == 0 {
		return nil, fmt.Errorf("tokenizer has no vocab")
	}

	t := &wordPieceTokenizer{vocab: raw.Model.Vocab}
	var ok bool
	if t.clsID, ok = t.vocab["[CLS]"]; !ok {
		return nil, fmt.Errorf("tokenizer vocab is missing [CLS]")
	}
	if t.sepID, ok = t.vocab["[SEP]"]; !ok {
		return nil, fmt.Errorf("tokenizer vocab is missing [SEP]")
	}
	if t.unkID, ok = t.vocab["[UNK]"]; !ok {
		return nil, fmt.Errorf("tokenizer vocab is missing [UNK]")
	}
	return t, nil
}

// tokenize lowercases, splits on whitespace, and greedily matches the
// longest vocab prefix per word, falling back to [UNK].
func (t *wordPieceTokenizer) tokenize(text string) []int64 {
	var ids []int64
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if word == "" {
			continue
		}
		if id, ok := t.vocab[word]; ok {
			ids = append(ids, id)
			continue
		}
		ids = append(ids, t.wordPiece(word)...)
	}
	return ids
}

func (t *wordPieceTokenizer) wordPiece(word string) []int64 {
	var ids []int64
	start := 0
	for start < len(word) {
		matched := false
		for end := len(word); end > start; end-- {
			piece := word[start:end]
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				ids = append(ids, id)
				start = end
				matched = true
				break
			}
		}
		if !matched {
			ids = append(ids, t.unkID)
			start++
		}
	}
	return ids
}
