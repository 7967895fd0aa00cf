package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	bus, err := NewBus(db)
	require.NoError(t, err)
	t.Cleanup(bus.Close)
	return bus
}

func TestPublishPersistsEvents(t *testing.T) {
	bus := newTestBus(t)

	bus.Publish(SyncStarted, "tmdb-sync", nil)
	bus.Publish(MovieImported, "tmdb-sync", map[string]interface{}{"tmdb_id": 949})

	records, err := bus.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	types := []string{records[0].Type, records[1].Type}
	assert.Contains(t, types, string(SyncStarted))
	assert.Contains(t, types, string(MovieImported))

	for _, r := range records {
		if r.Type == string(MovieImported) {
			assert.Contains(t, r.Data, "949")
		}
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	bus := newTestBus(t)

	for i := 0; i < 5; i++ {
		bus.Publish(MovieImported, "tmdb-sync", nil)
	}

	records, err := bus.Recent(3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSubscribersReceivePublishedEvents(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan Event, 1)
	bus.Subscribe(SystemStarted, func(e Event) {
		received <- e
	})

	bus.Publish(SystemStarted, "test", nil)

	select {
	case e := <-received:
		assert.Equal(t, SystemStarted, e.Type)
		assert.Equal(t, "test", e.Source)
		assert.NotEmpty(t, e.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the event")
	}
}

func TestSubscribersAreScopedToType(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan Event, 2)
	bus.Subscribe(SyncCompleted, func(e Event) {
		received <- e
	})

	bus.Publish(SyncStarted, "test", nil)
	bus.Publish(SyncCompleted, "test", nil)

	select {
	case e := <-received:
		assert.Equal(t, SyncCompleted, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the event")
	}
	assert.Empty(t, received)
}
