package sync

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2025, time.November, 1, 12, 0, 0, 0, time.UTC)
}

func testPublisher(t *testing.T) (*Publisher, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	p := NewPublisher(mem)
	p.Now = fixedNow
	return p, mem
}

func TestPublishWritesConsistentViews(t *testing.T) {
	p, mem := testPublisher(t)
	ctx := context.Background()

	sessions := []model.ClassSession{
		{ID: 1, Name: "Pasta Workshop", Date: "2025-11-20", Time: "6:00 PM", MaxSeats: 10, BookedSeats: 4},
		{ID: 2, Name: "Knife Skills", Date: "2025-12-01", Time: "2:00 PM", MaxSeats: 6, BookedSeats: 6},
	}
	require.NoError(t, p.Publish(ctx, sessions))

	var admin []model.ClassSession
	found, err := store.GetJSON(ctx, mem, store.KeyClassCatalogAdmin, &admin)
	require.NoError(t, err)
	require.True(t, found)

	var customer []model.CustomerClass
	found, err = store.GetJSON(ctx, mem, store.KeyClassCatalogCustomer, &customer)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, customer, len(admin))

	// For every published session the two views describe the same capacity.
	for i, a := range admin {
		assert.Equal(t, a.ID, customer[i].ID)
		assert.Equal(t, a.MaxSeats, customer[i].Seats+a.BookedSeats,
			"customer seats plus admin bookedSeats must equal maxSeats")
	}
}

func TestCustomerViewDropsPastSessions(t *testing.T) {
	p, _ := testPublisher(t)

	sessions := []model.ClassSession{
		{ID: 1, Name: "Yesterday", Date: "2025-10-31", MaxSeats: 8},
		{ID: 2, Name: "Today", Date: "2025-11-01", MaxSeats: 8},
		{ID: 3, Name: "Tomorrow", Date: "2025-11-02", MaxSeats: 8},
		{ID: 4, Name: "Broken date", Date: "soon", MaxSeats: 8},
	}
	view := p.CustomerView(sessions)

	require.Len(t, view, 2)
	assert.Equal(t, int64(2), view[0].ID, "today's session stays visible")
	assert.Equal(t, int64(3), view[1].ID)
}

func TestCustomerViewClampsSeats(t *testing.T) {
	p, _ := testPublisher(t)

	view := p.CustomerView([]model.ClassSession{
		{ID: 1, Name: "Overbooked", Date: "2025-12-01", MaxSeats: 4, BookedSeats: 6},
	})
	require.Len(t, view, 1)
	assert.Equal(t, 0, view[0].Seats)
}

func TestPublishBumpsMarker(t *testing.T) {
	p, mem := testPublisher(t)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, nil))

	raw, found, err := mem.Get(ctx, store.KeyLastUpdateMarker)
	require.NoError(t, err)
	require.True(t, found)

	millis, err := strconv.ParseInt(string(raw), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, fixedNow().UnixMilli(), millis)
}

func TestWatchFiresOnPublish(t *testing.T) {
	p, _ := testPublisher(t)
	ctx := context.Background()

	fired := 0
	cancel := p.Watch(func() { fired++ })
	defer cancel()

	require.NoError(t, p.Publish(ctx, nil))
	require.NoError(t, p.Publish(ctx, nil))
	assert.Equal(t, 2, fired)

	cancel()
	require.NoError(t, p.Publish(ctx, nil))
	assert.Equal(t, 2, fired, "cancelled watch must not fire")
}
