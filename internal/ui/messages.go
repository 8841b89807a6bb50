package ui

import (
	"time"

	"shopgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for spinner animations
type tickMsg time.Time

// debounceMsg fires after the quiet interval following a filter keystroke.
// seq identifies the keystroke that scheduled it; a stale seq means a later
// keystroke superseded this emission and it must be discarded.
type debounceMsg struct {
	seq int
}
