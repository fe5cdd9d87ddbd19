package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes a convenience wrapper for inline button properties.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			var data []string
			if btn.Data != "" {
				data = append(data, btn.Data)
			}
			r[j] = *markup.Data(btn.Text, btn.Unique, data...).Inline()
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// Keys lists the callback keys of every button, row by row.
func Keys(markup *tele.ReplyMarkup) []string {
	if markup == nil {
		return nil
	}
	var keys []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			keys = append(keys, btn.Unique)
		}
	}
	return keys
}
