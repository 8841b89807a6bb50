package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"shopgrip/internal/ui/input/types"
)

// FilterMode edits the product filter. Keystrokes flow through the shared
// text input and reach the model as UpdateTextActions, so filtering happens
// live (debounced) while typing; enter keeps the filter, esc restores the
// one that was active before. Editing always starts from an empty input.
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}
