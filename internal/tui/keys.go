package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ViewAll     key.Binding
	ViewMine    key.Binding
	ViewOverdue key.Binding
	ViewDueSoon key.Binding
	NextView    key.Binding
	New         key.Binding
	Detail      key.Binding
	Private     key.Binding
	Chat        key.Binding
	Status      key.Binding
	Priority    key.Binding
	Assign      key.Binding
	Recommend   key.Binding
	Comment     key.Binding
	Export      key.Binding
	Logout      key.Binding
	Help        key.Binding
	Enter       key.Binding
	Back        key.Binding
	Up          key.Binding
	Down        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	ViewAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all tasks"),
	),
	ViewMine: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "my tasks"),
	),
	ViewOverdue: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "overdue"),
	),
	ViewDueSoon: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "due soon"),
	),
	NextView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new task"),
	),
	Detail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "task detail"),
	),
	Private: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "private chat"),
	),
	Chat: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "write message"),
	),
	Status: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle status"),
	),
	Priority: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "cycle priority"),
	),
	Assign: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "assign"),
	),
	Recommend: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "suggest assignee"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comment"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "logout"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Detail, k.Chat, k.Private, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewAll, k.ViewMine, k.ViewOverdue, k.ViewDueSoon, k.NextView},
		{k.New, k.Detail, k.Status, k.Priority, k.Export},
		{k.Chat, k.Private, k.Logout},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
