package runtime

// Command is an intent emitted by a widget and handled by the App.
type Command interface {
	isCommand()
}

// Quit stops the App.
type Quit struct{}

func (Quit) isCommand() {}

// Refresh forces a full redraw.
type Refresh struct{}

func (Refresh) isCommand() {}
