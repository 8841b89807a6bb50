package domain

// Product represents a single catalog item
type Product struct {
	ID       string
	Name     string
	Price    float64
	ImageURL string
}

// ImageState represents the load state of a product's image
type ImageState int

const (
	ImagePending ImageState = iota // no load or error signal received yet
	ImageLoaded
	ImageError
)

// String returns a human-readable name for the state
func (s ImageState) String() string {
	switch s {
	case ImageLoaded:
		return "loaded"
	case ImageError:
		return "error"
	default:
		return "pending"
	}
}
