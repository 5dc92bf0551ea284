package domain

// User roles.
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

// Parcel lifecycle statuses, in normal progression order.
const (
	StatusPending        = "pending"
	StatusAssigned       = "assigned"
	StatusPickedUp       = "picked-up"
	StatusInTransit      = "in-transit"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
	StatusFailed         = "failed"
	StatusCancelled      = "cancelled"
)

// AgentStatuses is the set an agent may set through the status-update endpoint.
// pending/assigned/cancelled are owned by booking, assignment and the customer.
var AgentStatuses = map[string]bool{
	StatusPickedUp:       true,
	StatusInTransit:      true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusFailed:         true,
}

// Payment methods.
const (
	PaymentPrepaid = "prepaid"
	PaymentCOD     = "cod"
)

// Notification types.
const (
	NotifParcelBooked    = "parcel-booked"
	NotifParcelAssigned  = "parcel-assigned"
	NotifStatusUpdate    = "status-update"
	NotifParcelDelivered = "parcel-delivered"
	NotifAgentApproved   = "agent-approved"
	NotifSystem          = "system"
)

// Agent application statuses.
const (
	AgentPending  = "pending"
	AgentApproved = "approved"
	AgentRejected = "rejected"
)
