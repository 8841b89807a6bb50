package logic

// Navigator handles selection movement and viewport math for the flat
// product list
type Navigator struct{}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Move shifts the selection by delta within [0, total), without wrapping
func (n *Navigator) Move(selected, delta, total int) int {
	if total == 0 {
		return 0
	}
	next := selected + delta
	if next < 0 {
		next = 0
	}
	if next >= total {
		next = total - 1
	}
	return next
}

// AdjustViewport returns a viewport offset that keeps the selection visible
func (n *Navigator) AdjustViewport(selected, offset, height, total int) int {
	if height <= 0 || total == 0 {
		return 0
	}
	if selected < offset {
		return selected
	}
	if selected >= offset+height {
		return selected - height + 1
	}
	// Shrink the offset if the list no longer fills the viewport
	if offset > 0 && total-offset < height {
		offset = total - height
		if offset < 0 {
			offset = 0
		}
	}
	return offset
}

// PageSize returns the jump distance for page up/down movement
func (n *Navigator) PageSize(height int) int {
	if height <= 1 {
		return 1
	}
	return height - 1
}
