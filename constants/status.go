package constants

// RequestStatus is the canonical status for procurement requests.
type RequestStatus string

// Stable values (store these exact strings in DB).
const (
	StatusOpen       RequestStatus = "Open"
	StatusInProgress RequestStatus = "In Progress"
	StatusClosed     RequestStatus = "Closed"
)

var allStatuses = []RequestStatus{StatusOpen, StatusInProgress, StatusClosed}

// IsValidStatus reports whether s is one of the known statuses.
func IsValidStatus(s string) bool {
	for _, st := range allStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}
