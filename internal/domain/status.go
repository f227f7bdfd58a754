package domain

// Status constants define the allowed account states. An inactive account
// cannot authenticate; previously issued tokens are rejected at resolution time.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatuses returns the set of valid account statuses.
func ValidStatuses() []string {
	return []string{StatusActive, StatusInactive}
}

// IsValidStatus checks whether the given status string is a valid account status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
