package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// ClearFilterAction drops an applied filter from normal mode
type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

// RefreshAction requests a new catalog fetch
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

// ToggleHelpAction toggles the expanded help footer
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

// QuitAction exits the application
type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
