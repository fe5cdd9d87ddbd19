package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const (
	keyReplies  = "replies"
	keyKeyboard = "kb"
)

// Totals is a process-wide snapshot of update and reply counters.
type Totals struct {
	Updates   int64 `json:"updates"`
	Commands  int64 `json:"commands"`
	Callbacks int64 `json:"callbacks"`
	Texts     int64 `json:"texts"`
	Replies   int64 `json:"replies"`
	Keyboards int64 `json:"keyboard_replies"`
	Failed    int64 `json:"failed_replies"`
}

var totals struct {
	updates, commands, callbacks, texts atomic.Int64
	replies, keyboards, failed          atomic.Int64
}

// ReadTotals returns the counters accumulated since process start.
func ReadTotals() Totals {
	return Totals{
		Updates:   totals.updates.Load(),
		Commands:  totals.commands.Load(),
		Callbacks: totals.callbacks.Load(),
		Texts:     totals.texts.Load(),
		Replies:   totals.replies.Load(),
		Keyboards: totals.keyboards.Load(),
		Failed:    totals.failed.Load(),
	}
}

// replyCounter counts outbound replies made through the wrapped context.
type replyCounter struct{ tele.Context }

func (r replyCounter) track(err error, opts []interface{}) error {
	if err != nil {
		totals.failed.Add(1)
		return err
	}
	n, _ := r.Get(keyReplies).(int)
	r.Set(keyReplies, n+1)
	totals.replies.Add(1)
	if carriesMarkup(opts) {
		r.Set(keyKeyboard, true)
		totals.keyboards.Add(1)
	}
	return nil
}

func carriesMarkup(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (r replyCounter) Send(what interface{}, opts ...interface{}) error {
	return r.track(r.Context.Send(what, opts...), opts)
}

func (r replyCounter) Reply(what interface{}, opts ...interface{}) error {
	return r.track(r.Context.Reply(what, opts...), opts)
}

func (r replyCounter) Edit(what interface{}, opts ...interface{}) error {
	return r.track(r.Context.Edit(what, opts...), opts)
}

func (r replyCounter) EditOrSend(what interface{}, opts ...interface{}) error {
	return r.track(r.Context.EditOrSend(what, opts...), opts)
}

// MessageMetricsMiddleware classifies the update and counts the replies its handler makes.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if _, seen := c.Get(keyReplies).(int); !seen {
			totals.updates.Add(1)
			switch upd := c.Update(); {
			case upd.Callback != nil:
				totals.callbacks.Add(1)
			case upd.Message != nil && len(upd.Message.Text) > 0 && upd.Message.Text[0] == '/':
				totals.commands.Add(1)
			case upd.Message != nil:
				totals.texts.Add(1)
			}
			c.Set(keyReplies, 0)
			c.Set(keyKeyboard, false)
		}
		return next(replyCounter{Context: c})
	}
}

// GetCounters reports how many replies the current update produced and whether any carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	n, _ := c.Get(keyReplies).(int)
	kb, _ := c.Get(keyKeyboard).(bool)
	return n, kb
}
