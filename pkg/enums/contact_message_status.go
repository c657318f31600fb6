package enums

import "fmt"

// ContactMessageStatus tracks back-office triage of contact form messages.
type ContactMessageStatus string

const (
	ContactMessageStatusNew      ContactMessageStatus = "new"
	ContactMessageStatusRead     ContactMessageStatus = "read"
	ContactMessageStatusReplied  ContactMessageStatus = "replied"
	ContactMessageStatusArchived ContactMessageStatus = "archived"
)

var validContactMessageStatuses = []ContactMessageStatus{
	ContactMessageStatusNew,
	ContactMessageStatusRead,
	ContactMessageStatusReplied,
	ContactMessageStatusArchived,
}

// String implements fmt.Stringer.
func (c ContactMessageStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactMessageStatus.
func (c ContactMessageStatus) IsValid() bool {
	for _, candidate := range validContactMessageStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactMessageStatus converts raw input into a ContactMessageStatus.
func ParseContactMessageStatus(value string) (ContactMessageStatus, error) {
	for _, candidate := range validContactMessageStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact message status %q", value)
}
