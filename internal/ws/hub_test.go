package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 8)}
}

func TestHubSendToUserAddressesOnlyThatUser(t *testing.T) {
	h := NewHub()
	a1 := newTestClient(1)
	a2 := newTestClient(1)
	b := newTestClient(2)
	h.Register(a1)
	h.Register(a2)
	h.Register(b)

	h.SendToUser(1, EventRead, ReadPayload{NotificationID: 5})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.Send:
			var f struct {
				Event string          `json:"event"`
				Data  json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &f))
			require.Equal(t, EventRead, f.Event)
		default:
			t.Fatal("expected frame for user 1 connection")
		}
	}
	select {
	case <-b.Send:
		t.Fatal("user 2 must not receive user 1's event")
	default:
	}
}

func TestHubSendToUnknownUserIsNoOp(t *testing.T) {
	h := NewHub()
	h.SendToUser(99, EventAllRead, nil)
	require.Equal(t, 0, h.ClientCount())
}

func TestHubUnregisterOnClose(t *testing.T) {
	h := NewHub()
	c1 := newTestClient(1)
	c2 := newTestClient(1)
	h.Register(c1)
	h.Register(c2)
	require.Equal(t, 2, h.UserConnections(1))

	c1.Close()
	require.Equal(t, 1, h.UserConnections(1))
	require.Equal(t, 1, h.ClientCount())

	// Double close is safe.
	c1.Close()
	c2.Close()
	require.Equal(t, 0, h.UserConnections(1))
	require.Equal(t, 0, h.ClientCount())
}

func TestHubSkipsSlowConsumer(t *testing.T) {
	h := NewHub()
	slow := &Client{UserID: 1, Send: make(chan []byte)} // unbuffered, nobody reading
	h.Register(slow)

	done := make(chan struct{})
	go func() {
		h.SendToUser(1, EventAllRead, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendToUser blocked on a slow consumer")
	}
	select {
	case <-slow.Send:
		t.Fatal("frame should have been dropped, not delivered")
	default:
	}
}
