package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{name: "nil", cb: nil},
		{name: "unique", cb: &tele.Callback{Unique: "random", Data: ""}, key: "random"},
		{name: "encoded", cb: &tele.Callback{Data: "\frandom_by_author|x"}, key: "random_by_author", payload: "x"},
		{name: "plain", cb: &tele.Callback{Data: "menu"}, key: "menu"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}
