package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopgrip/internal/domain"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	bus := New()
	received := make(chan DomainEvent, 1)
	bus.Subscribe(EventFetchStarted, func(e DomainEvent) {
		received <- e
	})

	bus.Publish(FetchStartedEvent{Endpoint: "http://localhost/api/products"})

	select {
	case e := <-received:
		event, ok := e.(FetchStartedEvent)
		require.True(t, ok)
		assert.Equal(t, "http://localhost/api/products", event.Endpoint)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscriberOnlySeesItsType(t *testing.T) {
	bus := New()
	received := make(chan DomainEvent, 4)
	bus.Subscribe(EventImageLoaded, func(e DomainEvent) {
		received <- e
	})

	bus.Publish(FetchStartedEvent{Endpoint: "x"})
	bus.Publish(ImageLoadedEvent{ProductID: "1"})

	select {
	case e := <-received:
		event, ok := e.(ImageLoadedEvent)
		require.True(t, ok)
		assert.Equal(t, "1", event.ProductID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for image event")
	}

	select {
	case e := <-received:
		t.Fatalf("unexpected extra event %v", e.Type())
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMultipleSubscribersEachReceive(t *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		bus.Subscribe(EventCatalogLoaded, func(e DomainEvent) {
			wg.Done()
		})
	}

	bus.Publish(CatalogLoadedEvent{Products: []domain.Product{{ID: "1"}}})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all subscribers received the event")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	received := make(chan DomainEvent, 4)
	unsubscribe := bus.Subscribe(EventError, func(e DomainEvent) {
		received <- e
	})

	unsubscribe()
	bus.Publish(ErrorEvent{Message: "boom"})

	select {
	case <-received:
		t.Fatal("received event after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnsubscribeLeavesOtherSubscribersIntact(t *testing.T) {
	bus := New()
	received := make(chan string, 4)
	first := bus.Subscribe(EventError, func(e DomainEvent) {
		received <- "first"
	})
	bus.Subscribe(EventError, func(e DomainEvent) {
		received <- "second"
	})

	first()
	bus.Publish(ErrorEvent{Message: "boom"})

	select {
	case who := <-received:
		assert.Equal(t, "second", who)
	case <-time.After(2 * time.Second):
		t.Fatal("surviving subscriber never received the event")
	}
}

func TestPanickingHandlerDoesNotWedgeBus(t *testing.T) {
	bus := New()
	received := make(chan struct{}, 1)
	bus.Subscribe(EventRefreshRequested, func(e DomainEvent) {
		panic("handler blew up")
	})
	bus.Subscribe(EventRefreshRequested, func(e DomainEvent) {
		received <- struct{}{}
	})

	bus.Publish(RefreshRequestedEvent{})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("bus stopped delivering after a handler panic")
	}
}

func TestEventsArriveInPublishOrder(t *testing.T) {
	bus := New()
	received := make(chan EventType, 8)
	record := func(e DomainEvent) {
		received <- e.Type()
	}
	bus.Subscribe(EventFetchStarted, record)
	bus.Subscribe(EventCatalogLoaded, record)

	bus.Publish(FetchStartedEvent{Endpoint: "x"})
	bus.Publish(CatalogLoadedEvent{Products: []domain.Product{{ID: "1"}}})

	want := []EventType{EventFetchStarted, EventCatalogLoaded}
	for _, expected := range want {
		select {
		case got := <-received:
			assert.Equal(t, expected, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for ordered events")
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := New()

	// No subscribers; flood well past the buffer. Extra events are dropped
	// rather than blocking the publisher.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5000; i++ {
			bus.Publish(ImageLoadedEvent{ProductID: "1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a full bus")
	}
}
