package notifysync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotOverwritesProvisionalState(t *testing.T) {
	st := NewStore(nil)

	// Push event arrives before the first snapshot resolves; it is applied
	// provisionally.
	st.Apply(Event{Kind: EventNew, Notification: unreadAt(9, time.Now())})
	require.Equal(t, 1, st.UnreadCount())

	// The snapshot then resolves and wins wholesale; id 9 is discarded.
	st.Replace([]Notification{unreadAt(1, time.Now()), unreadAt(2, time.Now())}, 2)
	list := st.Notifications()
	require.Len(t, list, 2)
	require.Equal(t, uint(1), list[0].ID)
	require.Equal(t, uint(2), list[1].ID)
	require.Equal(t, 2, st.UnreadCount())
}

func TestStoreDiscardsMutationsAfterClose(t *testing.T) {
	st := NewStore(nil)
	st.Apply(Event{Kind: EventNew, Notification: unreadAt(1, time.Now())})
	st.Close()

	// Stale responses arriving after teardown must be discarded, not applied.
	st.Apply(Event{Kind: EventNew, Notification: unreadAt(2, time.Now())})
	st.Replace([]Notification{unreadAt(3, time.Now())}, 1)

	require.True(t, st.Closed())
	require.Empty(t, st.Notifications())
	require.Equal(t, 0, st.UnreadCount())
}

func TestStoreAlerterFiresForUnreadNewOnly(t *testing.T) {
	st := NewStore(nil)
	alerts := make(chan string, 4)
	st.SetAlerter(AlerterFunc(func(title, message string) {
		alerts <- title
	}))

	read := unreadAt(1, time.Now())
	read.IsRead = true
	read.Title = "already read"
	st.Apply(Event{Kind: EventNew, Notification: read})

	fresh := unreadAt(2, time.Now())
	fresh.Title = "fresh"
	st.Apply(Event{Kind: EventNew, Notification: fresh})

	st.Apply(Event{Kind: EventRead, ID: 2, ReadAt: time.Now()})
	st.Apply(Event{Kind: EventAllRead})

	select {
	case title := <-alerts:
		require.Equal(t, "fresh", title)
	case <-time.After(time.Second):
		t.Fatal("expected an alert for the unread notification")
	}
	select {
	case title := <-alerts:
		t.Fatalf("unexpected extra alert: %q", title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStoreUnreadHelpers(t *testing.T) {
	st := NewStore(nil)
	st.Replace([]Notification{
		{ID: 1, IsRead: true},
		{ID: 2},
		{ID: 3},
	}, 2)

	require.True(t, st.HasUnread())
	unread := st.Unread()
	require.Len(t, unread, 2)
	require.Equal(t, uint(2), unread[0].ID)
	require.Equal(t, uint(3), unread[1].ID)
}

func TestStoreRecountUnreadAfterDelete(t *testing.T) {
	st := NewStore(nil)
	st.Apply(Event{Kind: EventNew, Notification: unreadAt(1, time.Now())})
	st.Apply(Event{Kind: EventDeleted, ID: 1})

	// The maintained counter overstates after deleting an unread entry; only
	// RecountUnread re-derives it from the list.
	require.Equal(t, 1, st.UnreadCount())
	require.Equal(t, 0, st.RecountUnread())
	require.Equal(t, 0, st.UnreadCount())
}

func TestStoreSerializesConcurrentMutation(t *testing.T) {
	st := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := uint(i + 1)
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Apply(Event{Kind: EventNew, Notification: unreadAt(id, time.Now())})
		}()
		go func() {
			defer wg.Done()
			st.Apply(Event{Kind: EventRead, ID: id, ReadAt: time.Now()})
		}()
	}
	wg.Wait()

	list := st.Notifications()
	require.Len(t, list, 50)
	require.Equal(t, recount(list), st.RecountUnread())
}
