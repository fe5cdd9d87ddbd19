package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quotebot/core/telegram/state"
	"github.com/m3rciful/quotebot/internal/authors"
	"github.com/m3rciful/quotebot/internal/quotes"
)

type sentReply struct {
	Method string
	Reply  Reply
}

type recorder struct {
	mu      sync.Mutex
	replies []sentReply
}

func (r *recorder) Send(_ context.Context, rep Reply) error { return r.add("send", rep) }
func (r *recorder) Edit(_ context.Context, rep Reply) error { return r.add("edit", rep) }

func (r *recorder) add(method string, rep Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, sentReply{Method: method, Reply: rep})
	return nil
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.replies))
	for _, s := range r.replies {
		out = append(out, s.Reply.Text)
	}
	return out
}

func (r *recorder) last() sentReply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replies[len(r.replies)-1]
}

type fakeQuotes struct {
	q   quotes.Quote
	err error
}

func (f fakeQuotes) FetchRandom(context.Context) (quotes.Quote, error) { return f.q, f.err }

// fakeResolver answers from known, and blocks on inputs listed in gates
// until the gate closes or ctx ends.
type fakeResolver struct {
	known   map[string]quotes.Quote
	gates   map[string]chan struct{}
	started chan string
}

func (f *fakeResolver) Resolve(ctx context.Context, raw string) (authors.Resolution, error) {
	if f.started != nil {
		f.started <- raw
	}
	if gate, ok := f.gates[raw]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return authors.Resolution{}, ctx.Err()
		}
	}
	if q, ok := f.known[raw]; ok {
		return authors.Resolution{Quote: q, Stage: authors.StageSlug}, nil
	}
	return authors.Resolution{}, &authors.NotFoundError{Reason: authors.ReasonNoMatch}
}

var (
	wilde    = quotes.Quote{Content: "Be yourself", Author: "Oscar Wilde"}
	einstein = quotes.Quote{Content: "Imagination is more important than knowledge.", Author: "Albert Einstein"}
)

func newMachine(res *fakeResolver) *Machine {
	if res == nil {
		res = &fakeResolver{known: map[string]quotes.Quote{"Oscar Wilde": wilde, "einstein": einstein}}
	}
	return NewMachine(state.NewMemoryManager(), fakeQuotes{q: wilde}, res)
}

func cmd(chatID int64, action string) Event {
	return Event{Kind: KindCommand, ChatID: chatID, Action: action, FirstName: "Ada"}
}

func text(chatID int64, s string) Event {
	return Event{Kind: KindText, ChatID: chatID, Text: s}
}

func TestFormatQuote(t *testing.T) {
	assert.Equal(t, "\"Be yourself\"\n\n- Oscar Wilde", FormatQuote(wilde))
	assert.Equal(t, "I'm sorry, no quotes by this author were found.", FormatError())
	assert.Equal(t, "Hi, Ada, I am a bot!\n\nI can help you pick a quote. Type /menu for a list of available commands.", HelpText("Ada"))
	assert.Contains(t, HelpText(""), "Hi, there,")
}

func TestAuthorFlowEndsAfterOneText(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), r))
	assert.Equal(t, StateAwaitingAuthor, m.State(1))
	assert.Equal(t, TextAuthorPrompt, r.last().Reply.Text)

	require.NoError(t, m.Dispatch(ctx, text(1, "Oscar Wilde"), r))
	assert.Equal(t, state.StateIdle, m.State(1))
	assert.Equal(t, FormatQuote(wilde), r.last().Reply.Text)

	require.NoError(t, m.Dispatch(ctx, text(1, "einstein"), r))
	assert.Equal(t, TextUnknown, r.last().Reply.Text)
}

func TestAuthorNotFoundReplyAndIdle(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), r))
	require.NoError(t, m.Dispatch(ctx, text(1, "xyzzy"), r))
	assert.Equal(t, FormatError(), r.last().Reply.Text)
	assert.Equal(t, state.StateIdle, m.State(1))
}

func TestCancel(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "cancel"), r))
	assert.Equal(t, TextNothingPending, r.last().Reply.Text)
	assert.Equal(t, state.StateIdle, m.State(1))

	require.NoError(t, m.Dispatch(ctx, cmd(1, "/random_by_author"), r))
	require.NoError(t, m.Dispatch(ctx, cmd(1, "/cancel"), r))
	assert.Equal(t, TextCanceled, r.last().Reply.Text)
	assert.Equal(t, state.StateIdle, m.State(1))
}

func TestRandomKeepsIdle(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}

	require.NoError(t, m.Dispatch(context.Background(), cmd(1, "random"), r))
	assert.Equal(t, state.StateIdle, m.State(1))
	assert.Equal(t, sentReply{Method: "send", Reply: Reply{Text: FormatQuote(wilde)}}, r.last())
}

func TestRandomFailure(t *testing.T) {
	m := NewMachine(state.NewMemoryManager(), fakeQuotes{err: &quotes.TransportError{Op: "random", Status: 502}}, &fakeResolver{})
	r := &recorder{}

	require.NoError(t, m.Dispatch(context.Background(), cmd(1, "random"), r))
	assert.Equal(t, TextRandomFailed, r.last().Reply.Text)
}

func TestButtonsEditTheMessage(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, Event{Kind: KindButton, ChatID: 1, Action: "menu"}, r))
	assert.Equal(t, sentReply{Method: "edit", Reply: Reply{Text: TextMenu, HTML: true, Menu: true}}, r.last())

	require.NoError(t, m.Dispatch(ctx, Event{Kind: KindButton, ChatID: 1, Action: "random_by_author"}, r))
	assert.Equal(t, "edit", r.last().Method)
	assert.Equal(t, StateAwaitingAuthor, m.State(1))

	// the answer is typed, so it is sent as a new message
	require.NoError(t, m.Dispatch(ctx, text(1, "einstein"), r))
	assert.Equal(t, sentReply{Method: "send", Reply: Reply{Text: FormatQuote(einstein)}}, r.last())
}

func TestStaticReplies(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "start"), r))
	assert.Equal(t, Reply{Text: TextStart, Menu: true}, r.last().Reply)
	require.NoError(t, m.Dispatch(ctx, cmd(1, "help"), r))
	assert.Equal(t, Reply{Text: HelpText("Ada")}, r.last().Reply)
	require.NoError(t, m.Dispatch(ctx, cmd(1, "menu"), r))
	assert.True(t, r.last().Reply.HTML)
}

func TestRepromptKeepsOneQuestion(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), r))
	require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), r))
	assert.Equal(t, StateAwaitingAuthor, m.State(1))

	require.NoError(t, m.Dispatch(ctx, text(1, "Oscar Wilde"), r))
	assert.Equal(t, state.StateIdle, m.State(1))
	require.NoError(t, m.Dispatch(ctx, text(1, "Oscar Wilde"), r))
	assert.Equal(t, []string{TextAuthorPrompt, TextAuthorPrompt, FormatQuote(wilde), TextUnknown}, r.texts())
}

func TestOtherCommandsAbandonQuestion(t *testing.T) {
	for _, action := range []string{"help", "start", "menu", "random", "no_such_command"} {
		t.Run(action, func(t *testing.T) {
			m := newMachine(nil)
			r := &recorder{}
			ctx := context.Background()

			require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), r))
			require.NoError(t, m.Dispatch(ctx, cmd(1, action), r))
			assert.Equal(t, state.StateIdle, m.State(1))

			require.NoError(t, m.Dispatch(ctx, text(1, "Oscar Wilde"), r))
			assert.Equal(t, TextUnknown, r.last().Reply.Text)
		})
	}
}

func TestUnknownInputWhileIdle(t *testing.T) {
	m := newMachine(nil)
	r := &recorder{}

	require.NoError(t, m.Dispatch(context.Background(), text(1, "hello"), r))
	require.NoError(t, m.Dispatch(context.Background(), cmd(1, "/quotes"), r))
	assert.Equal(t, []string{TextUnknown, TextUnknown}, r.texts())
}

func abortScenario(t *testing.T, action string) (*Machine, *recorder) {
	t.Helper()
	res := &fakeResolver{
		gates:   map[string]chan struct{}{"slow": make(chan struct{})},
		started: make(chan string, 1),
	}
	m := newMachine(res)
	r := &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), r))

	textDone := make(chan error, 1)
	go func() { textDone <- m.Dispatch(ctx, text(1, "slow"), r) }()
	select {
	case <-res.started:
	case <-time.After(time.Second):
		t.Fatal("resolver never started")
	}

	require.NoError(t, m.Dispatch(ctx, cmd(1, action), r))
	select {
	case err := <-textDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("aborted lookup did not return")
	}
	return m, r
}

func TestCancelAbortsInflightLookup(t *testing.T) {
	m, r := abortScenario(t, "cancel")
	assert.Equal(t, []string{TextAuthorPrompt, TextCanceled}, r.texts())
	assert.Equal(t, state.StateIdle, m.State(1))
}

func TestStartAbortsInflightLookup(t *testing.T) {
	m, r := abortScenario(t, "start")
	assert.Equal(t, []string{TextAuthorPrompt, TextStart}, r.texts())
	assert.Equal(t, state.StateIdle, m.State(1))
}

func TestRepromptAbortsInflightLookup(t *testing.T) {
	m, r := abortScenario(t, "random_by_author")
	assert.Equal(t, []string{TextAuthorPrompt, TextAuthorPrompt}, r.texts())
	assert.Equal(t, StateAwaitingAuthor, m.State(1))
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	gate := make(chan struct{})
	res := &fakeResolver{
		known:   map[string]quotes.Quote{"Oscar Wilde": wilde, "einstein": einstein},
		gates:   map[string]chan struct{}{"Oscar Wilde": gate},
		started: make(chan string, 2),
	}
	m := newMachine(res)
	ra, rb := &recorder{}, &recorder{}
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, cmd(1, "random_by_author"), ra))
	require.NoError(t, m.Dispatch(ctx, cmd(2, "random_by_author"), rb))

	aDone := make(chan error, 1)
	go func() { aDone <- m.Dispatch(ctx, text(1, "Oscar Wilde"), ra) }()
	assert.Equal(t, "Oscar Wilde", <-res.started)

	// chat 2 completes while chat 1 is still resolving
	require.NoError(t, m.Dispatch(ctx, text(2, "einstein"), rb))
	<-res.started
	assert.Equal(t, state.StateIdle, m.State(2))
	assert.Equal(t, StateAwaitingAuthor, m.State(1))
	assert.Equal(t, FormatQuote(einstein), rb.last().Reply.Text)

	close(gate)
	require.NoError(t, <-aDone)
	assert.Equal(t, state.StateIdle, m.State(1))
	assert.Equal(t, []string{TextAuthorPrompt, FormatQuote(wilde)}, ra.texts())
	assert.Equal(t, []string{TextAuthorPrompt, FormatQuote(einstein)}, rb.texts())
	assert.Equal(t, 2, m.Sessions())
}

type failingReplier struct{ err error }

func (f failingReplier) Send(context.Context, Reply) error { return f.err }
func (f failingReplier) Edit(context.Context, Reply) error { return f.err }

func TestReplyErrorIsReturned(t *testing.T) {
	boom := errors.New("telegram down")
	err := newMachine(nil).Dispatch(context.Background(), cmd(1, "help"), failingReplier{err: boom})
	assert.ErrorIs(t, err, boom)
}
