package models

// OrderStatus is the lifecycle label stored on a service order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

type statusInfo struct {
	label      string
	badgeColor string
	next       []OrderStatus
}

var statusTable = map[OrderStatus]statusInfo{
	StatusPending:    {"PENDING", "yellow", []OrderStatus{StatusConfirmed, StatusCancelled}},
	StatusConfirmed:  {"CONFIRMED", "blue", []OrderStatus{StatusInProgress, StatusCancelled}},
	StatusInProgress: {"IN PROGRESS", "purple", []OrderStatus{StatusCompleted, StatusCancelled}},
	StatusCompleted:  {"COMPLETED", "green", nil},
	StatusCancelled:  {"CANCELLED", "red", nil},
}

// technicianStatuses is the fixed set offered to technicians.
var technicianStatuses = map[OrderStatus]bool{
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// ParseOrderStatus converts a string to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	return st, st.Valid()
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Label is the display form, e.g. "IN PROGRESS".
func (s OrderStatus) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return string(s)
}

// BadgeColor is the color used for the status badge.
func (s OrderStatus) BadgeColor() string {
	if info, ok := statusTable[s]; ok {
		return info.badgeColor
	}
	return "muted"
}

// IsTerminal reports whether the lifecycle ends at s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TechnicianSettable reports whether a technician may set s.
func (s OrderStatus) TechnicianSettable() bool {
	return technicianStatuses[s]
}

// LifecycleAllows reports whether moving from one status to another follows
// pending -> confirmed -> in_progress -> completed, with cancelled reachable
// from any non-terminal status. Setting the current status again is allowed.
func LifecycleAllows(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTable[from].next {
		if next == to {
			return true
		}
	}
	return false
}
