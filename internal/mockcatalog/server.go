package mockcatalog

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Product is the wire schema the catalog endpoint speaks
type Product struct {
	ID       string  `json:"productId"`
	Name     string  `json:"productName"`
	Price    float64 `json:"productPrice"`
	ImageURL string  `json:"productImage"`
}

type catalogResponse struct {
	Products []Product `json:"products"`
}

// onePixelPNG is a valid 1x1 transparent PNG served as every image body
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Server serves a fixed product catalog and image bytes for development
// and tests
type Server struct {
	router     *chi.Mux
	products   []Product
	failingIDs map[string]bool // image requests for these ids return 503
}

// Option configures the server
type Option func(*Server)

// WithProducts replaces the default fixture
func WithProducts(products []Product) Option {
	return func(s *Server) {
		s.products = products
	}
}

// WithFailingImages marks product ids whose image requests fail,
// to exercise the client's error path
func WithFailingImages(ids ...string) Option {
	return func(s *Server) {
		for _, id := range ids {
			s.failingIDs[id] = true
		}
	}
}

// NewServer creates a mock catalog server
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		products:   DefaultFixture(),
		failingIDs: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)

	s.router.Get("/api/products", s.handleProducts)
	s.router.Get("/images/{id}", s.handleImage)
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return s
}

// Handler returns the router for mounting in httptest or a real listener
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves the mock catalog on addr
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("Mock catalog listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// handleProducts returns the product fixture
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(catalogResponse{Products: s.products}); err != nil {
		log.Printf("Failed to encode catalog response: %v", err)
	}
}

// handleImage returns image bytes, or 503 for ids configured to fail
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.failingIDs[id] {
		http.Error(w, "image unavailable", http.StatusServiceUnavailable)
		return
	}

	known := false
	for _, p := range s.products {
		if p.ID == id {
			known = true
			break
		}
	}
	if !known {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(onePixelPNG)
}

// DefaultFixture returns the built-in product list. Image URLs are
// relative to the serving host and filled in by ResolveImageURLs.
func DefaultFixture() []Product {
	return []Product{
		{ID: "1", Name: "Red Shoe", Price: 10},
		{ID: "2", Name: "Blue Hat", Price: 5},
		{ID: "3", Name: "Green Scarf", Price: 12.5},
		{ID: "4", Name: "Red Sneaker", Price: 34.99},
		{ID: "5", Name: "Black Belt", Price: 8.75},
		{ID: "6", Name: "White Sneaker", Price: 29.9},
	}
}

// ResolveImageURLs points each product's image at this server's base URL
func ResolveImageURLs(products []Product, baseURL string) []Product {
	resolved := make([]Product, len(products))
	for i, p := range products {
		p.ImageURL = baseURL + "/images/" + p.ID
		resolved[i] = p
	}
	return resolved
}
