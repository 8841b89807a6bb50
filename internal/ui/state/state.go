package state

import (
	"shopgrip/internal/domain"
)

// AppState contains all the application state
type AppState struct {
	// Catalog data
	Products       map[string]*domain.Product // id -> product
	OrderedIDs     []string                   // ids in fetch order, drives display order
	CatalogVersion int                        // bumped on every snapshot replacement

	// Per-product image status. Absent entry reads as pending.
	// With TrackImages off no loader runs, so nothing reads as pending.
	ImageStatus map[string]domain.ImageState
	TrackImages bool

	// Search and filter state. RawQuery tracks every keystroke;
	// DebouncedQuery trails it by the quiet interval.
	RawQuery       string
	DebouncedQuery string

	// Selection and viewport state
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int

	// Operation state
	Fetching      bool   // catalog fetch in flight
	FetchFailed   bool   // last fetch ended in error
	StatusMessage string // status bar message
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Products:       make(map[string]*domain.Product),
		OrderedIDs:     make([]string, 0),
		ImageStatus:    make(map[string]domain.ImageState),
		TrackImages:    true,
		ViewportHeight: 20, // Default, replaced on first WindowSizeMsg
	}
}

// SetCatalog replaces the product snapshot. Display order follows the given
// slice. The image status map is reset: every product in the new snapshot
// starts out pending.
func (s *AppState) SetCatalog(products []domain.Product) {
	s.Products = make(map[string]*domain.Product, len(products))
	s.OrderedIDs = make([]string, 0, len(products))
	s.ImageStatus = make(map[string]domain.ImageState)
	s.CatalogVersion++

	for i := range products {
		p := products[i]
		if _, exists := s.Products[p.ID]; exists {
			continue // duplicate id in the payload, keep the first
		}
		s.Products[p.ID] = &p
		s.OrderedIDs = append(s.OrderedIDs, p.ID)
	}

	if s.SelectedIndex >= len(s.OrderedIDs) {
		s.SelectedIndex = 0
		s.ViewportOffset = 0
	}
}

// GetProduct retrieves a product by id
func (s *AppState) GetProduct(id string) (*domain.Product, bool) {
	p, ok := s.Products[id]
	return p, ok
}

// ImageStateFor returns the image status for a product id.
// Products without a recorded signal are pending. With image loading
// disabled no signal will ever arrive, so rows read as loaded.
func (s *AppState) ImageStateFor(id string) domain.ImageState {
	if !s.TrackImages {
		return domain.ImageLoaded
	}
	if st, ok := s.ImageStatus[id]; ok {
		return st
	}
	return domain.ImagePending
}

// SetImageState records an image load outcome. Signals for ids outside the
// current snapshot (stragglers from a replaced catalog) are dropped.
// Last writer wins for ids that somehow signal twice.
func (s *AppState) SetImageState(id string, st domain.ImageState) {
	if _, ok := s.Products[id]; !ok {
		return
	}
	s.ImageStatus[id] = st
}

// PendingImages reports how many products still have no image outcome
func (s *AppState) PendingImages() int {
	pending := 0
	for _, id := range s.OrderedIDs {
		if s.ImageStateFor(id) == domain.ImagePending {
			pending++
		}
	}
	return pending
}

// ClampSelection keeps the selection inside the visible list
func (s *AppState) ClampSelection(visibleCount int) {
	if visibleCount == 0 {
		s.SelectedIndex = 0
		s.ViewportOffset = 0
		return
	}
	if s.SelectedIndex >= visibleCount {
		s.SelectedIndex = visibleCount - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
}
