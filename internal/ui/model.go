package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"shopgrip/internal/config"
	"shopgrip/internal/eventbus"
	"shopgrip/internal/ui/handlers"
	"shopgrip/internal/ui/input"
	inputtypes "shopgrip/internal/ui/input/types"
	"shopgrip/internal/ui/logic"
	"shopgrip/internal/ui/state"
	"shopgrip/internal/ui/views"
)

// Height consumed by title, status bar and help footer around the list
const chromeHeight = 7

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state

	// UI-specific state not in AppState
	width        int
	height       int
	help         help.Model
	showFullHelp bool

	// Handlers
	searchFilter *logic.SearchFilter    // memoized product filter
	navigator    *logic.Navigator       // selection and viewport math
	renderer     *views.Renderer        // view renderer
	eventHandler *handlers.EventHandler // event processing handler
	inputHandler *input.Handler         // input handling

	// Debounce state. searchSeq identifies the latest raw query change;
	// a debounceMsg carrying an older seq has been superseded and is dropped.
	debounce   time.Duration
	searchSeq  int
	savedQuery string // filter active before entering filter mode
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config) *Model {
	appState := state.NewAppState()
	appState.TrackImages = cfg.UISettings.LoadImages

	m := &Model{
		bus:          bus,
		config:       cfg,
		state:        appState,
		help:         help.New(),
		searchFilter: logic.NewSearchFilter(),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UISettings.ShowPrices),
		inputHandler: input.New(),
		debounce:     cfg.Debounce(),
	}

	m.eventHandler = handlers.NewEventHandler(appState, m.refreshVisible)

	return m
}

// modelContext adapts the model for the input handler
type modelContext struct {
	m *Model
}

func (c *modelContext) CurrentIndex() int   { return c.m.state.SelectedIndex }
func (c *modelContext) TotalItems() int     { return len(c.m.visibleIDs()) }
func (c *modelContext) FilterQuery() string { return c.m.state.DebouncedQuery }

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	m.state.ViewportHeight = 20 // Will be updated on first WindowSizeMsg
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg, handlers.TickMsg:
		// Keep the spinner running while anything is loading
		if m.state.Fetching || m.state.PendingImages() > 0 {
			return m, tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}
		return m, nil

	case debounceMsg:
		// Only the latest scheduled emission may commit; earlier ones were
		// superseded by another keystroke
		if msg.seq == m.searchSeq {
			m.commitQuery(m.state.RawQuery)
		}
		return m, nil

	case handlers.ClearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil

	case EventMsg:
		return m, m.eventHandler.HandleEvent(msg.Event)

	default:
		// Handle non-keyboard messages (e.g. cursor blink) for the text input
		return m, m.inputHandler.Update(msg)
	}
}

// handleKey routes a key press through the input handler and processes
// the resulting actions
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := &modelContext{m: m}
	prevMode := m.inputHandler.CurrentMode()

	actions, cmd := m.inputHandler.HandleKey(msg, ctx)

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	// Record the applied filter when filter editing starts so esc can
	// restore it
	newMode := m.inputHandler.CurrentMode()
	if prevMode == inputtypes.ModeNormal && newMode == inputtypes.ModeFilter {
		m.savedQuery = m.state.DebouncedQuery
		m.state.RawQuery = ""
	}

	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// processAction executes a single action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.UpdateTextAction:
		// Raw query updates synchronously on every keystroke; the applied
		// query follows after the quiet interval
		m.state.RawQuery = a.Text
		m.searchSeq++
		if m.debounce <= 0 {
			m.commitQuery(a.Text)
			return nil
		}
		return debounceCmd(m.searchSeq, m.debounce)

	case inputtypes.SubmitTextAction:
		// Enter applies immediately, superseding any pending emission
		m.searchSeq++
		m.state.RawQuery = a.Text
		m.commitQuery(a.Text)

	case inputtypes.CancelTextAction:
		// Esc restores the filter that was active before editing and
		// cancels any pending emission
		m.searchSeq++
		m.state.RawQuery = m.savedQuery
		m.commitQuery(m.savedQuery)

	case inputtypes.ClearFilterAction:
		m.searchSeq++
		m.state.RawQuery = ""
		m.commitQuery("")

	case inputtypes.RefreshAction:
		m.bus.Publish(eventbus.RefreshRequestedEvent{})

	case inputtypes.ToggleHelpAction:
		m.showFullHelp = !m.showFullHelp
		m.help.ShowAll = m.showFullHelp
		m.updateViewportHeight()

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

// commitQuery sets the applied query and reclamps selection and viewport
func (m *Model) commitQuery(query string) {
	m.state.DebouncedQuery = query
	m.refreshVisible()
}

// navigate moves the selection within the filtered list
func (m *Model) navigate(direction string) {
	total := len(m.visibleIDs())
	s := m.state

	switch direction {
	case "up":
		s.SelectedIndex = m.navigator.Move(s.SelectedIndex, -1, total)
	case "down":
		s.SelectedIndex = m.navigator.Move(s.SelectedIndex, 1, total)
	case "pageup":
		s.SelectedIndex = m.navigator.Move(s.SelectedIndex, -m.navigator.PageSize(s.ViewportHeight), total)
	case "pagedown":
		s.SelectedIndex = m.navigator.Move(s.SelectedIndex, m.navigator.PageSize(s.ViewportHeight), total)
	case "home":
		s.SelectedIndex = 0
	case "end":
		if total > 0 {
			s.SelectedIndex = total - 1
		}
	}

	s.ViewportOffset = m.navigator.AdjustViewport(s.SelectedIndex, s.ViewportOffset, s.ViewportHeight, total)
}

// visibleIDs returns the filtered ids in display order (memoized)
func (m *Model) visibleIDs() []string {
	return m.searchFilter.Apply(m.state.OrderedIDs, m.state.Products, m.state.CatalogVersion, m.state.DebouncedQuery)
}

// refreshVisible reclamps selection and viewport after the catalog or the
// applied query changed
func (m *Model) refreshVisible() {
	ids := m.visibleIDs()
	m.state.ClampSelection(len(ids))
	m.state.ViewportOffset = m.navigator.AdjustViewport(
		m.state.SelectedIndex, m.state.ViewportOffset, m.state.ViewportHeight, len(ids))
}

// updateViewportHeight recomputes the list height from the window size
func (m *Model) updateViewportHeight() {
	h := m.height - chromeHeight
	if m.showFullHelp {
		h -= 2
	}
	if m.inputHandler.CurrentMode() == inputtypes.ModeFilter {
		h -= 2
	}
	if h < 1 {
		h = 1
	}
	m.state.ViewportHeight = h
	m.refreshVisible()
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Products:       m.state.Products,
		VisibleIDs:     m.visibleIDs(),
		ImageStatus:    m.state.ImageStateFor,
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		Fetching:       m.state.Fetching,
		FetchFailed:    m.state.FetchFailed,
		PendingImages:  m.state.PendingImages(),
		StatusMessage:  m.state.StatusMessage,
		RawQuery:       m.state.RawQuery,
		FilterQuery:    m.state.DebouncedQuery,
		EditingFilter:  m.inputHandler.CurrentMode() == inputtypes.ModeFilter,
		ShowFullHelp:   m.showFullHelp,
		HelpModel:      m.help,
		TotalProducts:  len(m.state.OrderedIDs),
	}

	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.FilterInput = ti.View()
	}

	return m.renderer.Render(vs)
}

// State exposes the app state for tests
func (m *Model) State() *state.AppState {
	return m.state
}

// VisibleIDs exposes the filtered list for tests
func (m *Model) VisibleIDs() []string {
	return m.visibleIDs()
}

// debounceCmd schedules the debounced commit for the given sequence number
func debounceCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}
