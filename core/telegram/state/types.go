package state

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no pending question for the chat.
const StateIdle State = "idle"

// ErrPreempted is the cancellation cause recorded when newer input aborts in-flight work.
var ErrPreempted = errors.New("state: preempted by newer input")

// Session stores conversation state for a single chat.
type Session struct {
	ChatID int64

	turn sync.Mutex

	mu       sync.Mutex
	state    State
	inflight context.CancelCauseFunc
	gen      uint64
	lastSeen time.Time
}

// Manager hands out per-chat sessions.
type Manager interface {
	// Session returns the chat session, creating an idle one on first use.
	Session(chatID int64) *Session
	// GetState returns the chat state without creating a session.
	GetState(chatID int64) State
	// Len reports the number of known sessions.
	Len() int
}
