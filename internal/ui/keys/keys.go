package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the views react to
type KeyMap struct {
	Quit      key.Binding
	Back      key.Binding
	Help      key.Binding
	Enter     key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	New       key.Binding
	Delete    key.Binding
	Status    key.Binding
	FetchJD   key.Binding
	Reload    key.Binding
	Save      key.Binding
	FormFetch key.Binding

	Dashboard key.Binding
	Positions key.Binding
	Calendar  key.Binding

	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		FetchJD:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch JD")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		FormFetch: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "fetch JD")),

		Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Positions: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "positions")),
		Calendar:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "calendar")),

		PrevWeek: key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "previous week")),
		NextWeek: key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next week")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	}
}
