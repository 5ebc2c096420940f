package orders

// Status is the order's position in the factory pipeline.
type Status string

const (
	StatusPending      Status = "pending" // awaiting payment
	StatusNew          Status = "new"
	StatusInProduction Status = "in_production"
	StatusShipped      Status = "shipped"
	StatusDelivered    Status = "delivered"
	StatusCancelled    Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusNew, StatusInProduction, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OperatorSettable reports whether the admin status control may set s.
// Pending and cancelled are reached through dedicated actions (payment
// confirmation, explicit cancel), never the generic dropdown.
func (s Status) OperatorSettable() bool {
	switch s {
	case StatusNew, StatusInProduction, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Terminal statuses cannot be cancelled.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Awaiting payment"
	case StatusNew:
		return "New"
	case StatusInProduction:
		return "In production"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Action is the closed set of audit-log entry kinds.
type Action string

const (
	ActionStatusChange      Action = "status_change"
	ActionAssigned          Action = "assigned"
	ActionNote              Action = "note"
	ActionCustomerEdit      Action = "customer_edit"
	ActionAddressEdit       Action = "address_edit"
	ActionSpecEdit          Action = "spec_edit"
	ActionCancelled         Action = "cancelled"
	ActionRefunded          Action = "refunded"
	ActionArchived          Action = "archived"
	ActionRestored          Action = "restored"
	ActionPrintFileReplaced Action = "print_file_replaced"
	ActionPaymentReceived   Action = "payment_received"
)

func (a Action) Label() string {
	switch a {
	case ActionStatusChange:
		return "Status changed"
	case ActionAssigned:
		return "Factory assigned"
	case ActionNote:
		return "Note added"
	case ActionCustomerEdit:
		return "Customer details edited"
	case ActionAddressEdit:
		return "Address edited"
	case ActionSpecEdit:
		return "Wallpaper spec edited"
	case ActionCancelled:
		return "Cancelled"
	case ActionRefunded:
		return "Refunded"
	case ActionArchived:
		return "Archived"
	case ActionRestored:
		return "Restored"
	case ActionPrintFileReplaced:
		return "Print file replaced"
	case ActionPaymentReceived:
		return "Payment received"
	default:
		return string(a)
	}
}
