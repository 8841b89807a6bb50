package handlers

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shopgrip/internal/domain"
	"shopgrip/internal/eventbus"
	"shopgrip/internal/ui/state"
)

// TickMsg is a tick message for animations
type TickMsg time.Time

// EventHandler handles domain events and updates state
type EventHandler struct {
	state           *state.AppState
	onCatalogChange func() // invalidates filter caches and reclamps selection
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState, onCatalogChange func()) *EventHandler {
	return &EventHandler{
		state:           appState,
		onCatalogChange: onCatalogChange,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.FetchStartedEvent:
		h.state.Fetching = true
		h.state.FetchFailed = false
		h.state.StatusMessage = "Loading products..."
		// Return a tick command to start the spinner animation
		return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
			return TickMsg(t)
		})

	case eventbus.CatalogLoadedEvent:
		h.state.Fetching = false
		h.state.SetCatalog(e.Products)
		h.state.StatusMessage = fmt.Sprintf("Loaded %d products.", len(e.Products))
		if h.onCatalogChange != nil {
			h.onCatalogChange()
		}
		// Images start pending; keep the spinner ticking
		return tea.Batch(
			tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
				return TickMsg(t)
			}),
			tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
				return ClearStatusMsg{}
			}),
		)

	case eventbus.CatalogFetchFailedEvent:
		// The list stays as it was (empty on first load); no retry
		h.state.Fetching = false
		h.state.FetchFailed = true
		h.state.StatusMessage = fmt.Sprintf("Error: failed to load products: %v", e.Err)

	case eventbus.ImageLoadedEvent:
		h.state.SetImageState(e.ProductID, domain.ImageLoaded)

	case eventbus.ImageFailedEvent:
		h.state.SetImageState(e.ProductID, domain.ImageError)

	case eventbus.ErrorEvent:
		h.state.StatusMessage = fmt.Sprintf("Error: %s", e.Message)
	}

	return nil
}

// ClearStatusMsg clears the status bar after a completion message
type ClearStatusMsg struct{}
