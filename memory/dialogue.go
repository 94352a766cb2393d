package memory

import "time"

// Sender identifies who produced a dialogue message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single dialogue turn. Messages are immutable once created.
type Message struct {
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DialogueLog is the append-only record of messages exchanged between one
// user and one persona. Sequence order is insertion order, and timestamps
// are monotonic non-decreasing within a log.
//
// The log does not persist itself; callers are expected to save it through
// a Store immediately after every Append.
type DialogueLog struct {
	UserID      string    `json:"user_id"`
	PersonaID   string    `json:"persona_id"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewDialogueLog creates an empty log scoped to an owner key.
func NewDialogueLog(userID, personaID string) *DialogueLog {
	return &DialogueLog{
		UserID:      userID,
		PersonaID:   personaID,
		LastUpdated: time.Now(),
	}
}

// Append records a message with the current timestamp and bumps
// LastUpdated. It always succeeds in-process.
func (l *DialogueLog) Append(sender Sender, content string) {
	now := time.Now()
	// Keep timestamps non-decreasing even if the wall clock steps back.
	if n := len(l.Messages); n > 0 && now.Before(l.Messages[n-1].Timestamp) {
		now = l.Messages[n-1].Timestamp
	}
	l.Messages = append(l.Messages, Message{
		Sender:    sender,
		Content:   content,
		Timestamp: now,
	})
	l.LastUpdated = now
}

// Recent returns the last n messages in original order, fewer if the log
// is shorter. n <= 0 returns an empty slice. Recent never mutates the log.
func (l *DialogueLog) Recent(n int) []Message {
	if n <= 0 {
		return nil
	}
	if n > len(l.Messages) {
		n = len(l.Messages)
	}
	out := make([]Message, n)
	copy(out, l.Messages[len(l.Messages)-n:])
	return out
}

// Len returns the number of messages in the log.
func (l *DialogueLog) Len() int {
	return len(l.Messages)
}
