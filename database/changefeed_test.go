package database_test

import (
	"testing"

	"basket-service/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangefeedDeliversToAllSubscribers(t *testing.T) {
	feed := database.NewChangefeed()

	a, cancelA := feed.Subscribe()
	defer cancelA()
	b, cancelB := feed.Subscribe()
	defer cancelB()

	feed.Publish(database.Event{Table: "cart_items", UserID: "u1"})

	assert.Equal(t, "u1", (<-a).UserID)
	assert.Equal(t, "u1", (<-b).UserID)
}

func TestChangefeedCoalescesForSlowSubscribers(t *testing.T) {
	feed := database.NewChangefeed()

	ch, cancel := feed.Subscribe()
	defer cancel()

	// Nobody is draining: later events supersede the pending one.
	feed.Publish(database.Event{Table: "cart_items", UserID: "u1"})
	feed.Publish(database.Event{Table: "cart_items", UserID: "u2"})
	feed.Publish(database.Event{Table: "products"})

	e := <-ch
	assert.Equal(t, "products", e.Table)

	select {
	case e := <-ch:
		t.Fatalf("expected no further events, got %+v", e)
	default:
	}
}

func TestChangefeedCancelClosesChannel(t *testing.T) {
	feed := database.NewChangefeed()

	ch, cancel := feed.Subscribe()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancel must not panic or deliver.
	feed.Publish(database.Event{Table: "products"})

	// Cancelling twice is safe.
	cancel()
}
