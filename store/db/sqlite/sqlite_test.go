package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/meetsense/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreateAndListEvents(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	start := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	created, err := db.CreateEvent(ctx, &store.Event{
		UID:       "evt-1",
		Organizer: "alice@example.com",
		Summary:   "Project Sync",
		Attendees: []string{"alice@example.com", "bob@example.com"},
		StartTs:   start.Unix(),
		EndTs:     start.Add(30 * time.Minute).Unix(),
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	list, err := db.ListEvents(ctx, &store.FindEvent{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Project Sync", list[0].Summary)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, list[0].Attendees)
}

func TestListEventsTimeRange(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	day := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	for hour, uid := range map[int]string{9: "morning", 15: "afternoon"} {
		start := day.Add(time.Duration(hour) * time.Hour)
		_, err := db.CreateEvent(ctx, &store.Event{
			UID:       uid,
			Organizer: "alice@example.com",
			StartTs:   start.Unix(),
			EndTs:     start.Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
	}

	// Query the morning only; half-open overlap keeps the 09:00 event out of
	// a window that starts at its end.
	from := day.Add(8 * time.Hour).Unix()
	to := day.Add(12 * time.Hour).Unix()
	list, err := db.ListEvents(ctx, &store.FindEvent{StartTs: &from, EndTs: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "morning", list[0].UID)

	from = day.Add(10 * time.Hour).Unix()
	to = day.Add(11 * time.Hour).Unix()
	list, err = db.ListEvents(ctx, &store.FindEvent{StartTs: &from, EndTs: &to})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreAttendeeFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	st := store.New(db)

	start := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	_, err := st.CreateEvent(ctx, &store.Event{
		UID:       "evt-1",
		Organizer: "alice@example.com",
		Attendees: []string{"alice@example.com", "bob@example.com"},
		StartTs:   start.Unix(),
		EndTs:     start.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	bob := "bob@example.com"
	list, err := st.ListEvents(ctx, &store.FindEvent{Attendee: &bob})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	carol := "carol@example.com"
	list, err = st.ListEvents(ctx, &store.FindEvent{Attendee: &carol})
	require.NoError(t, err)
	assert.Empty(t, list)
}
