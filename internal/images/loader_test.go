package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopgrip/internal/domain"
	"shopgrip/internal/eventbus"
)

// imageServer serves a tiny body for any path except those listed in fail,
// which get a 404.
func imageServer(t *testing.T, fail ...string) *httptest.Server {
	t.Helper()
	failing := make(map[string]bool, len(fail))
	for _, p := range fail {
		failing[p] = true
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/images/")
		if failing[id] {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}))
	t.Cleanup(ts.Close)
	return ts
}

// collectOutcomes records one terminal event per product id.
func collectOutcomes(bus eventbus.EventBus) (*sync.Map, chan string) {
	outcomes := &sync.Map{}
	seen := make(chan string, 16)
	bus.Subscribe(eventbus.EventImageLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ImageLoadedEvent); ok {
			outcomes.Store(event.ProductID, domain.ImageLoaded)
			seen <- event.ProductID
		}
	})
	bus.Subscribe(eventbus.EventImageFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ImageFailedEvent); ok {
			outcomes.Store(event.ProductID, domain.ImageError)
			seen <- event.ProductID
		}
	})
	return outcomes, seen
}

func waitForOutcomes(t *testing.T, seen chan string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-seen:
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out after %d of %d image outcomes", i, n)
		}
	}
}

func TestLoadAllPublishesOnePerProduct(t *testing.T) {
	ts := imageServer(t, "2")
	bus := eventbus.New()
	outcomes, seen := collectOutcomes(bus)

	products := []domain.Product{
		{ID: "1", Name: "Red Shoe", ImageURL: ts.URL + "/images/1"},
		{ID: "2", Name: "Blue Hat", ImageURL: ts.URL + "/images/2"},
		{ID: "3", Name: "Green Scarf", ImageURL: ts.URL + "/images/3"},
	}

	l := NewLoader(context.Background(), bus, 2, 2*time.Second, false)
	l.LoadAll(context.Background(), products)
	waitForOutcomes(t, seen, len(products))

	state, ok := outcomes.Load("1")
	require.True(t, ok)
	assert.Equal(t, domain.ImageLoaded, state)

	state, ok = outcomes.Load("2")
	require.True(t, ok)
	assert.Equal(t, domain.ImageError, state)

	state, ok = outcomes.Load("3")
	require.True(t, ok)
	assert.Equal(t, domain.ImageLoaded, state)
}

func TestLoadImageFailsOnMissingURL(t *testing.T) {
	bus := eventbus.New()
	_, seen := collectOutcomes(bus)

	l := NewLoader(context.Background(), bus, 1, time.Second, false)
	err := l.LoadImage(context.Background(), domain.Product{ID: "1", Name: "Red Shoe"})
	require.Error(t, err)
	waitForOutcomes(t, seen, 1)
}

func TestLoadImagePublishesNothingWhenCancelled(t *testing.T) {
	ts := imageServer(t)
	bus := eventbus.New()
	_, seen := collectOutcomes(bus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(context.Background(), bus, 1, time.Second, false)
	err := l.LoadImage(ctx, domain.Product{ID: "1", ImageURL: ts.URL + "/images/1"})
	require.Error(t, err)

	select {
	case id := <-seen:
		t.Fatalf("unexpected outcome for %s after cancellation", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPrefetchAfterShutdownPublishesNothing(t *testing.T) {
	ts := imageServer(t)
	bus := eventbus.New()
	_, seen := collectOutcomes(bus)

	ctx, cancel := context.WithCancel(context.Background())
	NewLoader(ctx, bus, 2, time.Second, true)
	cancel()

	bus.Publish(eventbus.CatalogLoadedEvent{Products: []domain.Product{
		{ID: "1", ImageURL: ts.URL + "/images/1"},
	}})

	select {
	case id := <-seen:
		t.Fatalf("unexpected outcome for %s after shutdown", id)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestLoaderPrefetchesOnCatalogLoad(t *testing.T) {
	ts := imageServer(t)
	bus := eventbus.New()
	_, seen := collectOutcomes(bus)

	NewLoader(context.Background(), bus, 2, 2*time.Second, true)
	bus.Publish(eventbus.CatalogLoadedEvent{Products: []domain.Product{
		{ID: "1", ImageURL: ts.URL + "/images/1"},
		{ID: "2", ImageURL: ts.URL + "/images/2"},
	}})

	waitForOutcomes(t, seen, 2)
}
