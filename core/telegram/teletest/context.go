// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sent records one outgoing call made through the context.
type Sent struct {
	Method string
	What   interface{}
	Opts   []interface{}
}

// Context implements the parts of tele.Context used by the bot handlers.
// Calling any other method panics through the nil embedded interface.
type Context struct {
	tele.Context

	Upd tele.Update

	mu        sync.Mutex
	store     map[string]interface{}
	sent      []Sent
	responded int
}

// NewMessage builds a context for a text message from userID in chatID.
func NewMessage(updateID int, chatID, userID int64, text string) *Context {
	msg := &tele.Message{
		ID:     updateID,
		Text:   text,
		Chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
		Sender: &tele.User{ID: userID, FirstName: "Ada"},
	}
	return &Context{Upd: tele.Update{ID: updateID, Message: msg}}
}

// NewCallback builds a context for an inline button press carrying unique.
func NewCallback(updateID int, chatID, userID int64, unique string) *Context {
	msg := &tele.Message{ID: 100 + updateID, Chat: &tele.Chat{ID: chatID, Type: tele.ChatPrivate}}
	cb := &tele.Callback{
		ID:      "cb",
		Unique:  unique,
		Sender:  &tele.User{ID: userID, FirstName: "Ada"},
		Message: msg,
	}
	return &Context{Upd: tele.Update{ID: updateID, Callback: cb}}
}

func (c *Context) Update() tele.Update { return c.Upd }

func (c *Context) Message() *tele.Message {
	if c.Upd.Callback != nil {
		return c.Upd.Callback.Message
	}
	return c.Upd.Message
}

func (c *Context) Callback() *tele.Callback { return c.Upd.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Sender
	case c.Upd.Message != nil:
		return c.Upd.Message.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Text() string {
	if c.Upd.Message != nil {
		return c.Upd.Message.Text
	}
	return ""
}

func (c *Context) Data() string {
	if c.Upd.Callback != nil {
		return c.Upd.Callback.Data
	}
	return ""
}

func (c *Context) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = val
}

func (c *Context) record(method string, what interface{}, opts []interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Sent{Method: method, What: what, Opts: opts})
	return nil
}

func (c *Context) Send(what interface{}, opts ...interface{}) error {
	return c.record("send", what, opts)
}

func (c *Context) Reply(what interface{}, opts ...interface{}) error {
	return c.record("reply", what, opts)
}

func (c *Context) Edit(what interface{}, opts ...interface{}) error {
	return c.record("edit", what, opts)
}

func (c *Context) EditOrSend(what interface{}, opts ...interface{}) error {
	if c.Upd.Callback != nil {
		return c.record("edit", what, opts)
	}
	return c.record("send", what, opts)
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responded++
	return nil
}

// Sent returns a copy of every recorded outgoing call.
func (c *Context) Sent() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.sent...)
}

// Texts returns the text payloads of recorded calls.
func (c *Context) Texts() []string {
	var out []string
	for _, s := range c.Sent() {
		if text, ok := s.What.(string); ok {
			out = append(out, text)
		}
	}
	return out
}

// Responded reports how many callback answers were sent.
func (c *Context) Responded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responded
}
