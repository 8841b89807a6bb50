package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFetchStarted       EventType = "FetchStarted"
	EventCatalogLoaded      EventType = "CatalogLoaded"
	EventCatalogFetchFailed EventType = "CatalogFetchFailed"
	EventImageLoaded        EventType = "ImageLoaded"
	EventImageFailed        EventType = "ImageFailed"
	EventRefreshRequested   EventType = "RefreshRequested"
	EventError              EventType = "Error"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FetchStartedEvent is emitted when a catalog fetch begins
type FetchStartedEvent struct {
	Endpoint string
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// CatalogLoadedEvent is emitted when a catalog fetch completes successfully.
// Products carry the server's ordering, which the UI must preserve.
type CatalogLoadedEvent struct {
	Products []Product
}

func (e CatalogLoadedEvent) Type() EventType { return EventCatalogLoaded }

// CatalogFetchFailedEvent is emitted when a catalog fetch fails.
// The product list is left as it was; there is no retry.
type CatalogFetchFailedEvent struct {
	Endpoint string
	Err      error
}

func (e CatalogFetchFailedEvent) Type() EventType { return EventCatalogFetchFailed }

// ImageLoadedEvent is emitted when a product's image loads successfully
type ImageLoadedEvent struct {
	ProductID string
}

func (e ImageLoadedEvent) Type() EventType { return EventImageLoaded }

// ImageFailedEvent is emitted when a product's image fails to load
type ImageFailedEvent struct {
	ProductID string
	Err       error
}

func (e ImageFailedEvent) Type() EventType { return EventImageFailed }

// RefreshRequestedEvent is emitted to request a new catalog fetch
type RefreshRequestedEvent struct{}

func (e RefreshRequestedEvent) Type() EventType { return EventRefreshRequested }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Endpoint string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
