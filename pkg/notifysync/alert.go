package notifysync

// Alerter surfaces an OS-level alert for a newly pushed unread notification.
// Installing one stands in for the browser's granted notification permission;
// leaving it unset, or an Alert that fails, has no effect on list state.
type Alerter interface {
	Alert(title, message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(title, message string)

func (f AlerterFunc) Alert(title, message string) { f(title, message) }
