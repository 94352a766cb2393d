// Package agent wires a persona, its memory coordinator, and a generation
// backend into one conversational session.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/personakit/personakit/llm"
	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/persona"
)

const defaultGenerateTimeout = 60 * time.Second

// apologyFormat is the fixed-format fallback shown when generation fails.
// The underlying error is embedded so transcripts stay diagnosable.
const apologyFormat = "I'm sorry, I ran into a problem while answering (%v). Please try asking again."

// Agent processes queries for one (user, persona) session. Turns are
// strictly sequential: one query is fully processed before the next is
// accepted.
type Agent struct {
	userID          string
	persona         *persona.Config
	memory          *memory.Manager
	connector       llm.Connector
	generateTimeout time.Duration
}

// Option configures an Agent.
type Option func(*Agent)

// WithGenerateTimeout bounds each generation round trip.
func WithGenerateTimeout(d time.Duration) Option {
	return func(a *Agent) {
		a.generateTimeout = d
	}
}

// New creates an agent. A nil connector falls back to the mock backend so
// the agent stays runnable offline.
func New(userID string, p *persona.Config, mgr *memory.Manager, connector llm.Connector, opts ...Option) *Agent {
	if connector == nil {
		connector = llm.NewMock()
	}
	a := &Agent{
		userID:          userID,
		persona:         p,
		memory:          mgr,
		connector:       connector,
		generateTimeout: defaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Memory returns the session's memory coordinator, e.g. for setting
// salient facts explicitly.
func (a *Agent) Memory() *memory.Manager {
	return a.memory
}

// ProcessQuery runs one full turn: record the query, fuse memory into a
// prompt, generate, record the response.
//
// A generation failure is converted into the apology string and never
// propagated; the user's message and the apology both still land in the
// dialogue log. A persistence failure fails the turn with an error.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (string, error) {
	if err := a.memory.AddDialogue(memory.SenderUser, query); err != nil {
		return "", fmt.Errorf("record user message: %w", err)
	}

	prompt := a.memory.Fuse(ctx, query)

	genCtx := ctx
	if a.generateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, a.generateTimeout)
		defer cancel()
	}

	response, err := a.connector.Generate(genCtx, a.persona.SystemPrompt, prompt)
	if err != nil {
		log.Printf("[AGENT] generation failed for user=%s persona=%s: %v",
			a.userID, a.persona.PersonaID, err)
		response = fmt.Sprintf(apologyFormat, err)
	}

	if err := a.memory.AddDialogue(memory.SenderAssistant, response); err != nil {
		return response, fmt.Errorf("record assistant message: %w", err)
	}

	// Extension point: extract salient facts from this exchange into the
	// salient cache. Only the explicit Set/Get surface exists today.

	return response, nil
}
