package notifysync

// state is the reducer's value: the newest-first list and the unread counter.
type state struct {
	list   []Notification
	unread int
}

// apply is the single transition function for all push events and action
// mirrors. It is pure: the input state is never mutated, and applying the
// same event twice yields the same state.
//
// Two behaviors to note, both recorded in DESIGN.md:
//   - deleted never adjusts the unread count, matching the backend contract
//     even though deleting an unread entry leaves the count overstated;
//   - read and deleted for an id not in the list are full no-ops, including
//     the count (guards against events racing a snapshot reload).
func apply(s state, ev Event) state {
	switch ev.Kind {
	case EventNew:
		next := make([]Notification, 0, len(s.list)+1)
		next = append(next, ev.Notification)
		next = append(next, s.list...)
		unread := s.unread
		if !ev.Notification.IsRead {
			unread++
		}
		return state{list: next, unread: unread}

	case EventRead:
		idx := indexOf(s.list, ev.ID)
		if idx < 0 || s.list[idx].IsRead {
			return s
		}
		next := make([]Notification, len(s.list))
		copy(next, s.list)
		readAt := ev.ReadAt
		next[idx].IsRead = true
		next[idx].ReadAt = &readAt
		unread := s.unread - 1
		if unread < 0 {
			unread = 0
		}
		return state{list: next, unread: unread}

	case EventAllRead:
		next := make([]Notification, len(s.list))
		copy(next, s.list)
		for i := range next {
			next[i].IsRead = true
		}
		return state{list: next, unread: 0}

	case EventDeleted:
		idx := indexOf(s.list, ev.ID)
		if idx < 0 {
			return s
		}
		next := make([]Notification, 0, len(s.list)-1)
		next = append(next, s.list[:idx]...)
		next = append(next, s.list[idx+1:]...)
		return state{list: next, unread: s.unread}

	default:
		return s
	}
}

func indexOf(list []Notification, id uint) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// recount derives the unread counter from the list itself.
func recount(list []Notification) int {
	n := 0
	for i := range list {
		if !list[i].IsRead {
			n++
		}
	}
	return n
}
