package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"shopgrip/internal/domain"
	"shopgrip/internal/eventbus"
)

// Loader prefetches product images and reports per-product outcomes.
// Every attempt ends in exactly one ImageLoaded or ImageFailed event;
// a later signal for the same id overwrites the earlier one downstream.
type Loader interface {
	LoadAll(ctx context.Context, products []domain.Product)
	LoadImage(ctx context.Context, product domain.Product) error
}

// loader is the concrete implementation
type loader struct {
	bus        eventbus.EventBus
	client     *http.Client
	baseCtx    context.Context // bounds prefetch batches to the process lifetime
	workerPool chan struct{}   // Semaphore for limiting concurrent image fetches
}

// NewLoader creates a new image loader. When enabled it subscribes to
// catalog loads and prefetches every image in the snapshot; batches run
// under ctx so they die with the process.
func NewLoader(ctx context.Context, bus eventbus.EventBus, workers int, timeout time.Duration, enabled bool) Loader {
	if workers <= 0 {
		workers = 1
	}

	l := &loader{
		bus:        bus,
		baseCtx:    ctx,
		client:     &http.Client{Timeout: timeout},
		workerPool: make(chan struct{}, workers),
	}

	if enabled {
		// Subscribe to catalog loads and fetch the batch in the background
		bus.Subscribe(eventbus.EventCatalogLoaded, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.CatalogLoadedEvent); ok {
				go func() {
					batchCtx, cancel := context.WithTimeout(l.baseCtx, 120*time.Second)
					defer cancel()
					l.LoadAll(batchCtx, event.Products)
				}()
			}
		})
	}

	return l
}

// LoadAll fetches the images of all products concurrently
func (l *loader) LoadAll(ctx context.Context, products []domain.Product) {
	var wg sync.WaitGroup

	for _, product := range products {
		wg.Add(1)
		go func(p domain.Product) {
			defer wg.Done()
			l.LoadImage(ctx, p)
		}(product)
	}

	// Wait with cancellation
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// All images resolved
	case <-ctx.Done():
		// Context cancelled
	}
}

// LoadImage fetches a single product image and publishes the outcome
func (l *loader) LoadImage(ctx context.Context, product domain.Product) error {
	// Acquire worker slot
	select {
	case l.workerPool <- struct{}{}:
		defer func() { <-l.workerPool }()
	case <-ctx.Done():
		return ctx.Err()
	}

	err := l.fetchImage(ctx, product.ImageURL)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown, not an image failure; publish nothing
			return ctx.Err()
		}
		log.Printf("Image load failed for %s: %v", product.ID, err)
		l.bus.Publish(eventbus.ImageFailedEvent{ProductID: product.ID, Err: err})
		return err
	}

	l.bus.Publish(eventbus.ImageLoadedEvent{ProductID: product.ID})
	return nil
}

// fetchImage performs the HTTP request for one image. A 2xx status with a
// non-empty body counts as loaded; anything else is a failure.
func (l *loader) fetchImage(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("no image url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("image returned status %d", resp.StatusCode)
	}

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read image body: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("image body is empty")
	}

	return nil
}
