// Package conversation drives the per-chat dialog: it routes commands,
// button presses and free text, keeps at most one pending author question
// per chat and lets newer input abort a lookup that is still running.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/quotebot/core/logger"
	"github.com/m3rciful/quotebot/core/telegram/state"
	"github.com/m3rciful/quotebot/internal/authors"
	"github.com/m3rciful/quotebot/internal/quotes"
)

// StateAwaitingAuthor means the chat was asked for an author name.
const StateAwaitingAuthor state.State = "awaiting_author"

// ErrCancelled is the abort cause recorded for an explicit cancel.
var ErrCancelled = errors.New("conversation: cancelled by user")

// QuoteSource fetches random quotes.
type QuoteSource interface {
	FetchRandom(ctx context.Context) (quotes.Quote, error)
}

// AuthorResolver turns free-text author names into quotes.
type AuthorResolver interface {
	Resolve(ctx context.Context, raw string) (authors.Resolution, error)
}

// Machine dispatches events against per-chat sessions.
type Machine struct {
	sessions state.Manager
	quotes   QuoteSource
	authors  AuthorResolver
}

// NewMachine wires a Machine.
func NewMachine(sessions state.Manager, q QuoteSource, a AuthorResolver) *Machine {
	return &Machine{sessions: sessions, quotes: q, authors: a}
}

// State reports the current dialog state of a chat.
func (m *Machine) State(chatID int64) state.State {
	return m.sessions.GetState(chatID)
}

// Sessions reports how many chats have talked to the bot.
func (m *Machine) Sessions() int {
	return m.sessions.Len()
}

// Dispatch handles ev for its chat. Events of one chat run one at a time;
// known actions first abort any lookup the chat still has in flight.
func (m *Machine) Dispatch(ctx context.Context, ev Event, r Replier) error {
	sess := m.sessions.Session(ev.ChatID)
	ev.Action = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ev.Action), "/"))

	if ev.Kind != KindText && isKnownAction(ev.Action) {
		cause := state.ErrPreempted
		if ev.Action == ActionCancel {
			cause = ErrCancelled
		}
		if sess.Abort(cause) {
			logger.Debug(ctx, "conversation", "inflight.aborted",
				slog.String("action", ev.Action),
				slog.String("reason", cause.Error()),
			)
		}
	}

	end := sess.BeginTurn()
	defer end()

	if ev.Kind == KindText {
		return m.handleText(ctx, sess, ev, r)
	}
	return m.handleAction(ctx, sess, ev, r)
}

func (m *Machine) handleAction(ctx context.Context, sess *state.Session, ev Event, r Replier) error {
	switch ev.Action {
	case ActionCancel:
		if sess.State() != StateAwaitingAuthor {
			return m.reply(ctx, ev, r, Reply{Text: TextNothingPending})
		}
		m.transition(ctx, sess, state.StateIdle, "cancel")
		return m.reply(ctx, ev, r, Reply{Text: TextCanceled})

	case ActionStart:
		m.transition(ctx, sess, state.StateIdle, ev.Action)
		return m.reply(ctx, ev, r, Reply{Text: TextStart, Menu: true})

	case ActionMenu:
		m.transition(ctx, sess, state.StateIdle, ev.Action)
		return m.reply(ctx, ev, r, Reply{Text: TextMenu, HTML: true, Menu: true})

	case ActionHelp:
		m.transition(ctx, sess, state.StateIdle, ev.Action)
		return m.reply(ctx, ev, r, Reply{Text: HelpText(ev.FirstName)})

	case ActionRandom:
		m.transition(ctx, sess, state.StateIdle, ev.Action)
		return m.sendRandom(ctx, sess, ev, r)

	case ActionRandomByAuthor:
		m.transition(ctx, sess, StateAwaitingAuthor, ev.Action)
		return m.reply(ctx, ev, r, Reply{Text: TextAuthorPrompt})
	}

	m.transition(ctx, sess, state.StateIdle, "unknown_command")
	return m.reply(ctx, ev, r, Reply{Text: TextUnknown})
}

func (m *Machine) handleText(ctx context.Context, sess *state.Session, ev Event, r Replier) error {
	if sess.State() != StateAwaitingAuthor {
		return m.reply(ctx, ev, r, Reply{Text: TextUnknown})
	}

	work, done := sess.Track(ctx)
	res, err := m.authors.Resolve(work, ev.Text)
	cause := context.Cause(work)
	done()

	if cause != nil {
		// the aborting event decides what the chat sees and where it goes next
		logger.Info(ctx, "conversation", "author.aborted",
			slog.String("status", "cancelled"),
			slog.String("reason", cause.Error()),
		)
		return nil
	}

	m.transition(ctx, sess, state.StateIdle, "resolved")
	if err != nil {
		return m.reply(ctx, ev, r, Reply{Text: FormatError()})
	}
	return m.reply(ctx, ev, r, Reply{Text: FormatQuote(res.Quote)})
}

func (m *Machine) sendRandom(ctx context.Context, sess *state.Session, ev Event, r Replier) error {
	work, done := sess.Track(ctx)
	q, err := m.quotes.FetchRandom(work)
	aborted := work.Err() != nil
	done()

	switch {
	case aborted:
		return nil
	case err != nil:
		logger.Warn(ctx, "conversation", "random.failed",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return m.reply(ctx, ev, r, Reply{Text: TextRandomFailed})
	}
	return m.reply(ctx, ev, r, Reply{Text: FormatQuote(q)})
}

func (m *Machine) transition(ctx context.Context, sess *state.Session, to state.State, reason string) {
	from := sess.SetState(to)
	if from == to {
		return
	}
	logger.Debug(ctx, "conversation", "state.transition",
		slog.Int64("chat_id", sess.ChatID),
		slog.String("from_state", string(from)),
		slog.String("to_state", string(to)),
		slog.String("reason", reason),
	)
}

func (m *Machine) reply(ctx context.Context, ev Event, r Replier, rep Reply) error {
	start := time.Now()
	var err error
	if ev.Kind == KindButton {
		err = r.Edit(ctx, rep)
	} else {
		err = r.Send(ctx, rep)
	}
	if err != nil {
		logger.Warn(ctx, "conversation", "reply.failed",
			slog.String("status", "fail"),
			slog.String("kind", ev.Kind.String()),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.Duration("duration", logger.Took(start)),
		)
	}
	return err
}

func isKnownAction(action string) bool {
	switch action {
	case ActionStart, ActionMenu, ActionHelp, ActionRandom, ActionRandomByAuthor, ActionCancel:
		return true
	}
	return false
}
