package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventScrolled         EventType = "Scrolled"
	EventScrollingChanged EventType = "ScrollingChanged"
	EventLoadStateChanged EventType = "LoadStateChanged"
	EventLoadMoreFailed   EventType = "LoadMoreFailed"
	EventItemsAppended    EventType = "ItemsAppended"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ScrolledEvent is emitted after every scroll sample, user or programmatic
type ScrolledEvent struct {
	Offset   float64
	AtBottom bool
}

func (e ScrolledEvent) Type() EventType { return EventScrolled }

// ScrollingChangedEvent is emitted when the is-scrolling flag flips
type ScrollingChangedEvent struct {
	Scrolling bool
}

func (e ScrollingChangedEvent) Type() EventType { return EventScrollingChanged }

// LoadStateChangedEvent is emitted when the infinite-load state machine moves
type LoadStateChangedEvent struct {
	State string
}

func (e LoadStateChangedEvent) Type() EventType { return EventLoadStateChanged }

// LoadMoreFailedEvent carries a rejected load-more call back to the host
type LoadMoreFailedEvent struct {
	Err error
}

func (e LoadMoreFailedEvent) Type() EventType { return EventLoadMoreFailed }

// ItemsAppendedEvent is emitted when the host supplied new items
type ItemsAppendedEvent struct {
	Count   int
	HasMore bool
}

func (e ItemsAppendedEvent) Type() EventType { return EventItemsAppended }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
	Mode string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
