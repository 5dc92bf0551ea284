package notifysync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func unreadAt(id uint, at time.Time) Notification {
	return Notification{ID: id, Title: "t", Message: "m", Type: "system", CreatedAt: at}
}

func TestApplyNewPrependsNewestFirst(t *testing.T) {
	now := time.Now()
	s := state{}
	s = apply(s, Event{Kind: EventNew, Notification: unreadAt(1, now)})
	s = apply(s, Event{Kind: EventNew, Notification: unreadAt(2, now.Add(time.Second))})

	require.Len(t, s.list, 2)
	require.Equal(t, uint(2), s.list[0].ID)
	require.Equal(t, uint(1), s.list[1].ID)
	require.Equal(t, 2, s.unread)
}

func TestApplyNewAlreadyReadDoesNotCount(t *testing.T) {
	n := unreadAt(1, time.Now())
	n.IsRead = true
	s := apply(state{}, Event{Kind: EventNew, Notification: n})
	require.Equal(t, 0, s.unread)
	require.Len(t, s.list, 1)
}

func TestApplyReadIsIdempotent(t *testing.T) {
	readAt := time.Now()
	s := state{list: []Notification{unreadAt(1, time.Now())}, unread: 1}

	s1 := apply(s, Event{Kind: EventRead, ID: 1, ReadAt: readAt})
	require.True(t, s1.list[0].IsRead)
	require.NotNil(t, s1.list[0].ReadAt)
	require.Equal(t, readAt, *s1.list[0].ReadAt)
	require.Equal(t, 0, s1.unread)

	// Second application must change nothing; count stays 0, not -1, and the
	// original readAt is preserved.
	s2 := apply(s1, Event{Kind: EventRead, ID: 1, ReadAt: readAt.Add(time.Hour)})
	require.Equal(t, s1.list, s2.list)
	require.Equal(t, 0, s2.unread)
}

func TestApplyReadUnknownIDIsNoOp(t *testing.T) {
	s := state{list: []Notification{unreadAt(1, time.Now())}, unread: 1}
	s2 := apply(s, Event{Kind: EventRead, ID: 99, ReadAt: time.Now()})
	require.Equal(t, s.list, s2.list)
	require.Equal(t, 1, s2.unread)
}

func TestApplyAllRead(t *testing.T) {
	s := state{
		list:   []Notification{unreadAt(3, time.Now()), unreadAt(2, time.Now()), unreadAt(1, time.Now())},
		unread: 3,
	}
	s2 := apply(s, Event{Kind: EventAllRead})
	require.Equal(t, 0, s2.unread)
	for _, n := range s2.list {
		require.True(t, n.IsRead)
	}
	// Regardless of prior state.
	s3 := apply(state{}, Event{Kind: EventAllRead})
	require.Equal(t, 0, s3.unread)
	require.Empty(t, s3.list)
}

func TestApplyDeletedRemovesEntryButKeepsCount(t *testing.T) {
	s := apply(state{}, Event{Kind: EventNew, Notification: unreadAt(5, time.Now())})
	require.Equal(t, 1, s.unread)

	s2 := apply(s, Event{Kind: EventDeleted, ID: 5})
	require.Empty(t, s2.list)
	// Deletion leaves the counter alone, even for unread entries.
	require.Equal(t, 1, s2.unread)
	require.Equal(t, 0, recount(s2.list))
}

func TestApplyDeletedUnknownIDIsNoOp(t *testing.T) {
	s := state{list: []Notification{unreadAt(1, time.Now())}, unread: 1}
	s2 := apply(s, Event{Kind: EventDeleted, ID: 42})
	require.Equal(t, s.list, s2.list)
	require.Equal(t, 1, s2.unread)
}

func TestApplyNeverMutatesInput(t *testing.T) {
	orig := state{list: []Notification{unreadAt(1, time.Now()), unreadAt(2, time.Now())}, unread: 2}
	snapshot := make([]Notification, len(orig.list))
	copy(snapshot, orig.list)

	apply(orig, Event{Kind: EventRead, ID: 1, ReadAt: time.Now()})
	apply(orig, Event{Kind: EventAllRead})
	apply(orig, Event{Kind: EventDeleted, ID: 2})
	apply(orig, Event{Kind: EventNew, Notification: unreadAt(3, time.Now())})

	require.Equal(t, snapshot, orig.list)
	require.Equal(t, 2, orig.unread)
}

func TestCountNeverNegativeAcrossSequences(t *testing.T) {
	events := []Event{
		{Kind: EventRead, ID: 1, ReadAt: time.Now()},
		{Kind: EventNew, Notification: unreadAt(1, time.Now())},
		{Kind: EventRead, ID: 1, ReadAt: time.Now()},
		{Kind: EventRead, ID: 1, ReadAt: time.Now()},
		{Kind: EventDeleted, ID: 1},
		{Kind: EventRead, ID: 1, ReadAt: time.Now()},
		{Kind: EventAllRead},
		{Kind: EventDeleted, ID: 7},
	}
	s := state{}
	for _, ev := range events {
		s = apply(s, ev)
		require.GreaterOrEqual(t, s.unread, 0)
	}
}
