package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shopgrip/internal/domain"
)

// Shown in place of the status glyph for images that failed to load
const imageErrorText = "image not available"

// ProductRenderer handles rendering of product rows
type ProductRenderer struct {
	styles     *Styles
	showPrices bool
}

// NewProductRenderer creates a new product renderer
func NewProductRenderer(styles *Styles, showPrices bool) *ProductRenderer {
	return &ProductRenderer{
		styles:     styles,
		showPrices: showPrices,
	}
}

// RenderProduct renders one product row. Exactly one image indicator is
// shown per row, chosen by the image state: a spinner frame while pending,
// an error marker on failure, a check once loaded.
func (r *ProductRenderer) RenderProduct(product *domain.Product, imageState domain.ImageState,
	isSelected bool, filterQuery string, spinnerFrame string) string {
	if product == nil {
		return ""
	}

	// Background color for selection
	bgColor := ""
	if isSelected {
		bgColor = "238"
	}

	statusStyle := r.getImageStyle(imageState)
	if isSelected {
		statusStyle = statusStyle.Background(lipgloss.Color(bgColor))
	}

	// Build the product line
	var parts []string

	// Image status glyph
	parts = append(parts, statusStyle.Render(r.getImageIcon(imageState, spinnerFrame)))
	parts = append(parts, " ")

	// Product name (with filter match highlighting if applicable)
	name := product.Name
	nameStyle := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	if filterQuery != "" && strings.Contains(strings.ToLower(name), strings.ToLower(filterQuery)) {
		name = r.highlightMatch(name, filterQuery,
			nameStyle.Foreground(lipgloss.Color("226")), nameStyle)
	} else {
		name = nameStyle.Render(name)
	}
	parts = append(parts, name)

	// Price
	if r.showPrices {
		priceStyle := r.styles.Price
		if isSelected {
			priceStyle = priceStyle.Background(lipgloss.Color(bgColor))
		}
		parts = append(parts, nameStyle.Render("  "))
		parts = append(parts, priceStyle.Render(fmt.Sprintf("$%.2f", product.Price)))
	}

	// Inline error text replaces the hidden image
	if imageState == domain.ImageError {
		errStyle := r.styles.ImageError.Faint(true)
		if isSelected {
			errStyle = errStyle.Background(lipgloss.Color(bgColor))
		}
		parts = append(parts, nameStyle.Render("  "))
		parts = append(parts, errStyle.Render("["+imageErrorText+"]"))
	}

	return strings.Join(parts, "")
}

// getImageIcon returns the glyph for an image state
func (r *ProductRenderer) getImageIcon(state domain.ImageState, spinnerFrame string) string {
	switch state {
	case domain.ImageLoaded:
		return "✓"
	case domain.ImageError:
		return "✗"
	default:
		if spinnerFrame == "" {
			spinnerFrame = SpinnerFrames[0]
		}
		return spinnerFrame
	}
}

// getImageStyle returns the style for an image state glyph
func (r *ProductRenderer) getImageStyle(state domain.ImageState) lipgloss.Style {
	switch state {
	case domain.ImageLoaded:
		return r.styles.ImageLoaded
	case domain.ImageError:
		return r.styles.ImageError
	default:
		return r.styles.ImagePending
	}
}

// highlightMatch highlights matching text within a string. The match is
// located rune-wise: byte offsets found in the lowercased text are not
// valid in the original when case folding changes a rune's UTF-8 width.
func (r *ProductRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	textRunes := []rune(text)
	queryRunes := []rune(strings.ToLower(query))

	index := -1
	for i := 0; i+len(queryRunes) <= len(textRunes); i++ {
		if strings.ToLower(string(textRunes[i:i+len(queryRunes)])) == string(queryRunes) {
			index = i
			break
		}
	}
	if index == -1 {
		return normalStyle.Render(text)
	}

	// Split the text into parts
	before := string(textRunes[:index])
	match := string(textRunes[index : index+len(queryRunes)])
	after := string(textRunes[index+len(queryRunes):])

	// Render with appropriate styles
	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
