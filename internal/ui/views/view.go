package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"shopgrip/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Products       map[string]*domain.Product
	VisibleIDs     []string // filtered ids in display order
	ImageStatus    func(id string) domain.ImageState
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Fetching       bool
	FetchFailed    bool
	PendingImages  int
	StatusMessage  string
	RawQuery       string
	FilterQuery    string // the applied (debounced) query
	EditingFilter  bool
	FilterInput    string // rendered textinput view while editing
	ShowFullHelp   bool
	HelpModel      help.Model
	TotalProducts  int
}

// keyMap describes the bindings shown in the help footer
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	Filter:  key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp returns the compact binding list
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns the expanded binding list
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Filter, k.Clear, k.Refresh},
		{k.Help, k.Quit},
	}
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	productRender *ProductRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showPrices bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		productRender: NewProductRenderer(styles, showPrices),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")

	if state.EditingFilter {
		content.WriteString(r.styles.Prompt.Render("Filter: "))
		content.WriteString(state.FilterInput)
		content.WriteString("\n\n")
	}

	content.WriteString(r.renderList(state))
	content.WriteString(r.renderStatusBar(state))

	// Help footer
	content.WriteString("\n")
	if state.ShowFullHelp {
		content.WriteString(r.styles.Help.Render(state.HelpModel.FullHelpView(keys.FullHelp())))
	} else {
		content.WriteString(r.styles.Help.Render(state.HelpModel.ShortHelpView(keys.ShortHelp())))
	}

	return r.styles.Main.Render(content.String())
}

// renderTitleLine builds the title with right-aligned load indicators
func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("shopgrip")

	indicators := []string{}
	if state.Fetching {
		frame := SpinnerFrame(time.Now().UnixMilli())
		indicators = append(indicators, fmt.Sprintf("%s Loading products", frame))
	}
	if state.PendingImages > 0 {
		indicators = append(indicators, fmt.Sprintf("↓ %d images", state.PendingImages))
	}

	rightContent := ""
	if len(indicators) > 0 {
		rightContent = r.styles.Dim.Render(strings.Join(indicators, " | "))
	}
	if state.FilterQuery != "" {
		filterText := r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.FilterQuery))
		if rightContent != "" {
			rightContent = fmt.Sprintf("%s  %s", rightContent, filterText)
		} else {
			rightContent = filterText
		}
	}

	if rightContent == "" {
		return logo
	}

	padding := state.Width - lipgloss.Width(logo) - lipgloss.Width(rightContent) - 4
	if padding < 1 {
		padding = 1
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

// renderList renders the visible slice of the filtered product list
func (r *Renderer) renderList(state ViewState) string {
	b := &strings.Builder{}

	if len(state.VisibleIDs) == 0 {
		b.WriteString(r.styles.Dim.Render(r.emptyText(state)))
		b.WriteString("\n")
		return b.String()
	}

	start := state.ViewportOffset
	if start > len(state.VisibleIDs) {
		start = len(state.VisibleIDs)
	}
	end := start + state.ViewportHeight
	if end > len(state.VisibleIDs) {
		end = len(state.VisibleIDs)
	}

	frame := SpinnerFrame(time.Now().UnixMilli())
	for i := start; i < end; i++ {
		id := state.VisibleIDs[i]
		product := state.Products[id]
		line := r.productRender.RenderProduct(product, state.ImageStatus(id),
			i == state.SelectedIndex, state.FilterQuery, frame)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(state.VisibleIDs) > state.ViewportHeight {
		b.WriteString(r.styles.Scroll.Render(
			fmt.Sprintf("  %d-%d of %d", start+1, end, len(state.VisibleIDs))))
		b.WriteString("\n")
	}

	return b.String()
}

// emptyText picks the message for an empty list
func (r *Renderer) emptyText(state ViewState) string {
	switch {
	case state.Fetching:
		return "Loading products..."
	case state.FetchFailed:
		return "No products. The catalog could not be loaded."
	case state.TotalProducts > 0:
		return fmt.Sprintf("No products match %q.", state.FilterQuery)
	default:
		return "No products."
	}
}

// renderStatusBar renders the one-line status area
func (r *Renderer) renderStatusBar(state ViewState) string {
	if state.StatusMessage == "" {
		return ""
	}
	style := r.styles.Status
	if strings.HasPrefix(state.StatusMessage, "Error") {
		style = r.styles.StatusError
	}
	return style.Render(state.StatusMessage)
}
