package notifysync

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Session is one live transport connection feeding push events into a Store.
// It is bound to the identity whose token opened it and is never reused: on
// logout or identity change the caller closes it, and after a reconnect a new
// Session plus a Client.Refresh re-establish ground truth (missed events are
// not replayed).
type Session struct {
	conn  *websocket.Conn
	store *Store
	log   *zap.Logger

	once sync.Once
	done chan struct{}
}

// Dial connects to the notification channel, sends the join frame for the
// token's user and starts decoding pushes into the store. wsURL is the
// endpoint without credentials, e.g. ws://host/ws/notifications.
func Dial(ctx context.Context, wsURL, token string, store *Store, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	join, _ := json.Marshal(wireFrame{Event: wireJoin})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Session{
		conn:  conn,
		store: store,
		log:   log,
		done:  make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// readLoop applies events strictly in receipt order; there is no reordering
// or coalescing. Malformed frames are dropped and logged, frames for other
// event families are skipped silently.
func (s *Session) readLoop() {
	defer s.Close()
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := decodeEvent(raw)
		if err != nil {
			if !errors.Is(err, errUnknownEvent) {
				s.log.Warn("dropping malformed push event", zap.Error(err))
			}
			continue
		}
		s.store.Apply(ev)
	}
}

// Close tears down the connection. The store is left open; its owner decides
// whether the session ended (logout) or is about to be re-established.
func (s *Session) Close() {
	s.once.Do(func() {
		s.conn.Close()
		close(s.done)
	})
}

// Done is closed when the connection has ended, whether by Close or by a
// transport failure. A caller that observes Done without having called Close
// should dial a new session and Refresh before trusting further pushes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
