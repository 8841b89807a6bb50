package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopgrip/internal/domain"
)

func twoProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Red Shoe", Price: 10, ImageURL: "a"},
		{ID: "2", Name: "Blue Hat", Price: 5, ImageURL: "b"},
	}
}

func TestSetCatalogPreservesOrder(t *testing.T) {
	s := NewAppState()
	s.SetCatalog(twoProducts())

	require.Equal(t, []string{"1", "2"}, s.OrderedIDs)

	p, ok := s.GetProduct("1")
	require.True(t, ok)
	assert.Equal(t, "Red Shoe", p.Name)
}

func TestImageStateDefaultsToPending(t *testing.T) {
	s := NewAppState()
	s.SetCatalog(twoProducts())

	// No signal received yet: absent entry reads as pending
	assert.Equal(t, domain.ImagePending, s.ImageStateFor("1"))
	assert.Equal(t, domain.ImagePending, s.ImageStateFor("2"))
	assert.Equal(t, 2, s.PendingImages())
}

func TestDisabledImageTrackingLeavesNothingPending(t *testing.T) {
	s := NewAppState()
	s.TrackImages = false
	s.SetCatalog(twoProducts())

	// No loader runs, so rows must not spin forever
	assert.Equal(t, domain.ImageLoaded, s.ImageStateFor("1"))
	assert.Equal(t, 0, s.PendingImages())
}

func TestImageStateTransitions(t *testing.T) {
	s := NewAppState()
	s.SetCatalog(twoProducts())

	s.SetImageState("1", domain.ImageLoaded)
	s.SetImageState("2", domain.ImageError)

	assert.Equal(t, domain.ImageLoaded, s.ImageStateFor("1"))
	assert.Equal(t, domain.ImageError, s.ImageStateFor("2"))
	assert.Equal(t, 0, s.PendingImages())

	// Last writer wins if the same id somehow signals twice
	s.SetImageState("1", domain.ImageError)
	assert.Equal(t, domain.ImageError, s.ImageStateFor("1"))
}

func TestImageStateIgnoresUnknownID(t *testing.T) {
	s := NewAppState()
	s.SetCatalog(twoProducts())

	s.SetImageState("99", domain.ImageLoaded)
	assert.Equal(t, domain.ImagePending, s.ImageStateFor("99"))
	assert.NotContains(t, s.ImageStatus, "99")
}

func TestNewCatalogResetsImageStatus(t *testing.T) {
	s := NewAppState()
	s.SetCatalog(twoProducts())
	s.SetImageState("1", domain.ImageLoaded)

	// A fresh snapshot replaces the set and every image is pending again
	s.SetCatalog([]domain.Product{
		{ID: "1", Name: "Red Shoe", Price: 10, ImageURL: "a"},
		{ID: "3", Name: "Green Scarf", Price: 12.5, ImageURL: "c"},
	})

	require.Equal(t, []string{"1", "3"}, s.OrderedIDs)
	assert.Equal(t, domain.ImagePending, s.ImageStateFor("1"))
	assert.Equal(t, domain.ImagePending, s.ImageStateFor("3"))

	_, ok := s.GetProduct("2")
	assert.False(t, ok)
}

func TestSetCatalogDropsDuplicateIDs(t *testing.T) {
	s := NewAppState()
	s.SetCatalog([]domain.Product{
		{ID: "1", Name: "Red Shoe"},
		{ID: "1", Name: "Impostor Shoe"},
	})

	require.Equal(t, []string{"1"}, s.OrderedIDs)
	p, _ := s.GetProduct("1")
	assert.Equal(t, "Red Shoe", p.Name)
}

func TestClampSelection(t *testing.T) {
	s := NewAppState()
	s.SelectedIndex = 5

	s.ClampSelection(3)
	assert.Equal(t, 2, s.SelectedIndex)

	s.ClampSelection(0)
	assert.Equal(t, 0, s.SelectedIndex)
	assert.Equal(t, 0, s.ViewportOffset)
}
