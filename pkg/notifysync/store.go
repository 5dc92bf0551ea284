package notifysync

import (
	"sync"

	"go.uber.org/zap"
)

// Store owns one authenticated session's notification state. All mutation
// (push events, snapshot replacement, action mirrors) is serialized through
// its mutex, so an event arriving mid-mutation never observes a torn state.
// After Close, every mutation is discarded; a stale snapshot or action
// response resolving after logout cannot resurrect the session's state.
type Store struct {
	mu      sync.Mutex
	st      state
	closed  bool
	alerter Alerter
	log     *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log}
}

// SetAlerter installs the best-effort OS alert hook fired for unread new
// notifications. May be left unset.
func (s *Store) SetAlerter(a Alerter) {
	s.mu.Lock()
	s.alerter = a
	s.mu.Unlock()
}

// Apply runs one event through the reducer. Events for a closed store are
// dropped. The alert hook fires after the state change and never blocks it.
func (s *Store) Apply(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.st = apply(s.st, ev)
	alerter := s.alerter
	s.mu.Unlock()

	if ev.Kind == EventNew && !ev.Notification.IsRead && alerter != nil {
		go alerter.Alert(ev.Notification.Title, ev.Notification.Message)
	}
}

// Replace installs a snapshot wholesale, discarding whatever provisional
// state push events accumulated before the snapshot resolved
// (last-snapshot-wins).
func (s *Store) Replace(list []Notification, unread int) {
	cp := make([]Notification, len(list))
	copy(cp, list)
	if unread < 0 {
		unread = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.st = state{list: cp, unread: unread}
}

// Notifications returns a copy of the current list, newest first.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Notification, len(s.st.list))
	copy(cp, s.st.list)
	return cp
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.unread
}

func (s *Store) HasUnread() bool {
	return s.UnreadCount() > 0
}

// Unread returns only the entries still marked unread.
func (s *Store) Unread() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Notification
	for _, n := range s.st.list {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

// RecountUnread re-derives the counter from the list and installs it. The
// maintained counter can overstate after deletes of unread entries (the
// deleted event leaves it untouched); callers that want the
// derived value can resynchronize here.
func (s *Store) RecountUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.st.unread = recount(s.st.list)
	}
	return s.st.unread
}

// Close ends the session's state. Subsequent events, snapshots and mirrors
// are discarded. A Store is never reused across identities; the next login
// constructs a fresh one.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.st = state{}
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
