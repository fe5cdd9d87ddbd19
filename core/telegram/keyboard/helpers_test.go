package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineButtonsRows(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "One", Unique: "one"}},
		[]InlineBtn{{Text: "Two", Unique: "two"}, {Text: "Three", Unique: "three", Data: "3"}},
	)

	if assert.Len(t, markup.InlineKeyboard, 2) {
		assert.Len(t, markup.InlineKeyboard[0], 1)
		assert.Len(t, markup.InlineKeyboard[1], 2)
		assert.Equal(t, "Three", markup.InlineKeyboard[1][1].Text)
		assert.Equal(t, "3", markup.InlineKeyboard[1][1].Data)
	}
	assert.Equal(t, []string{"one", "two", "three"}, Keys(markup))
	assert.Nil(t, Keys(nil))
}
