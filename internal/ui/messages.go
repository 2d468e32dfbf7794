package ui

import (
	"time"

	"scrollwin/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// appendTickMsg drives live appends in chat mode
type appendTickMsg time.Time

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// yankMsg contains the result of a clipboard write
type yankMsg struct {
	id  int
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
