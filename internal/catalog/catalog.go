package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopgrip/internal/domain"
	"shopgrip/internal/eventbus"
)

// CatalogService fetches the product list from the catalog endpoint
type CatalogService interface {
	StartFetch(ctx context.Context) error
	Fetch(ctx context.Context) ([]domain.Product, error)
}

// wireProduct is the JSON schema the catalog endpoint speaks
type wireProduct struct {
	ID       string  `json:"productId"`
	Name     string  `json:"productName"`
	Price    float64 `json:"productPrice"`
	ImageURL string  `json:"productImage"`
}

type wireCatalog struct {
	Products []wireProduct `json:"products"`
}

// catalogService is the concrete implementation
type catalogService struct {
	bus        eventbus.EventBus
	client     *http.Client
	endpoint   string
	baseCtx    context.Context // bounds refresh-triggered fetches to the process lifetime
	mu         sync.Mutex
	isFetching bool
}

// NewCatalogService creates a new catalog service. Fetches triggered by
// refresh requests run under ctx so they die with the process.
func NewCatalogService(ctx context.Context, bus eventbus.EventBus, endpoint string, timeout time.Duration) CatalogService {
	cs := &catalogService{
		bus:      bus,
		endpoint: endpoint,
		baseCtx:  ctx,
		client:   &http.Client{Timeout: timeout},
	}

	// Subscribe to refresh requests
	bus.Subscribe(eventbus.EventRefreshRequested, func(e eventbus.DomainEvent) {
		if _, ok := e.(eventbus.RefreshRequestedEvent); ok {
			go cs.StartFetch(cs.baseCtx)
		}
	})

	return cs
}

// StartFetch fetches the catalog in the background and publishes the result.
// Cancelling ctx abandons the request; no event is published for the
// abandoned response.
func (cs *catalogService) StartFetch(ctx context.Context) error {
	cs.mu.Lock()
	if cs.isFetching {
		cs.mu.Unlock()
		return fmt.Errorf("fetch already in progress")
	}
	cs.isFetching = true
	cs.mu.Unlock()

	cs.bus.Publish(eventbus.FetchStartedEvent{Endpoint: cs.endpoint})

	go func() {
		defer func() {
			cs.mu.Lock()
			cs.isFetching = false
			cs.mu.Unlock()
		}()

		products, err := cs.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// Shut down mid-fetch, nothing to report
				return
			}
			log.Printf("Catalog fetch failed: %v", err)
			cs.bus.Publish(eventbus.CatalogFetchFailedEvent{Endpoint: cs.endpoint, Err: err})
			cs.bus.Publish(eventbus.ErrorEvent{
				Message: "Failed to load products",
				Err:     err,
			})
			return
		}

		cs.bus.Publish(eventbus.CatalogLoadedEvent{Products: products})
	}()

	return nil
}

// Fetch performs a single catalog request and decodes the product list,
// preserving the server's ordering
func (cs *catalogService) Fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cs.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := cs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var wire wireCatalog
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]domain.Product, 0, len(wire.Products))
	for _, wp := range wire.Products {
		products = append(products, domain.Product{
			ID:       wp.ID,
			Name:     wp.Name,
			Price:    wp.Price,
			ImageURL: wp.ImageURL,
		})
	}

	log.Printf("Fetched %d products from %s", len(products), cs.endpoint)
	return products, nil
}
