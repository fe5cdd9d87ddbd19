package conversation

import "context"

// Kind is the transport origin of an event.
type Kind int

const (
	// KindCommand is a slash command typed by the user.
	KindCommand Kind = iota
	// KindButton is an inline keyboard button press.
	KindButton
	// KindText is any other text message.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindButton:
		return "button"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Action names shared by commands and buttons.
const (
	ActionStart          = "start"
	ActionMenu           = "menu"
	ActionHelp           = "help"
	ActionRandom         = "random"
	ActionRandomByAuthor = "random_by_author"
	ActionCancel         = "cancel"
)

// Event is one inbound user interaction.
type Event struct {
	Kind   Kind
	ChatID int64
	// Action is the command or button name without a leading slash.
	Action    string
	Text      string
	FirstName string
}

// Reply is one outbound message.
type Reply struct {
	Text string
	// HTML selects HTML parse mode.
	HTML bool
	// Menu attaches the inline command keyboard.
	Menu bool
}

// Replier delivers replies for a single event. Edit replaces the message a
// button belongs to; Send posts a new one.
type Replier interface {
	Send(ctx context.Context, r Reply) error
	Edit(ctx context.Context, r Reply) error
}
