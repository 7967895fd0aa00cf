package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/logger"
)

// Record is the persisted form of an event. Data is stored as a JSON blob.
type Record struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"index" json:"type"`
	Source    string    `json:"source"`
	Data      string    `json:"data"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (Record) TableName() string { return "system_events" }

// Bus publishes events to subscribers and appends them to the persistent
// log. Persistence is synchronous so a published event is durable when
// Publish returns; handler dispatch happens on a separate goroutine.
type Bus struct {
	db       *gorm.DB
	log      hclog.Logger
	mu       sync.RWMutex
	handlers map[Type][]Handler
	queue    chan Event
	done     chan struct{}
	closed   sync.Once
}

// NewBus builds a bus backed by the given store and starts its dispatcher.
func NewBus(db *gorm.DB) (*Bus, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate event log: %w", err)
	}

	b := &Bus{
		db:       db,
		log:      logger.Named("events"),
		handlers: make(map[Type][]Handler),
		queue:    make(chan Event, 64),
		done:     make(chan struct{}),
	}
	go b.dispatch()
	return b, nil
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish persists the event and queues it for subscribers. A full queue
// drops the dispatch, never the log entry.
func (b *Bus) Publish(t Type, source string, data map[string]interface{}) Event {
	event := Event{
		ID:        uuid.NewString(),
		Type:      t,
		Source:    source,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload := ""
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			payload = string(raw)
		}
	}
	record := Record{
		ID:        event.ID,
		Type:      string(event.Type),
		Source:    event.Source,
		Data:      payload,
		Timestamp: event.Timestamp,
	}
	if err := b.db.Create(&record).Error; err != nil {
		b.log.Error("failed to persist event", "type", event.Type, "error", err)
	}

	select {
	case b.queue <- event:
	default:
		b.log.Warn("event queue full, dropping dispatch", "type", event.Type)
	}
	return event
}

// Recent returns the newest limit entries from the event log.
func (b *Bus) Recent(limit int) ([]Record, error) {
	records := []Record{}
	err := b.db.Order("timestamp DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return records, nil
}

// Close stops the dispatcher. Pending queued events are dropped; they are
// already persisted.
func (b *Bus) Close() {
	b.closed.Do(func() { close(b.done) })
}

func (b *Bus) dispatch() {
	for {
		select {
		case <-b.done:
			return
		case event := <-b.queue:
			b.mu.RLock()
			handlers := append([]Handler(nil), b.handlers[event.Type]...)
			b.mu.RUnlock()
			for _, h := range handlers {
				h(event)
			}
		}
	}
}
