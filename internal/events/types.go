// Package events provides a small system event bus with a persistent log.
// Lifecycle and ingestion milestones land here so operators can see what the
// service has been doing without trawling raw logs.
package events

import "time"

// Type names one kind of system event.
type Type string

const (
	// System lifecycle.
	SystemStarted  Type = "system.started"
	SystemStopped  Type = "system.stopped"
	ConfigReloaded Type = "config.reloaded"

	// Catalog ingestion.
	SyncStarted   Type = "sync.started"
	SyncCompleted Type = "sync.completed"
	SyncFailed    Type = "sync.failed"
	MovieImported Type = "movie.imported"
)

// Event is one occurrence published on the bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Handler receives published events. Handlers run on the dispatch goroutine
// and must not block.
type Handler func(Event)
