package enums

import "fmt"

// AdminOperationKind names a staff action recorded in the item audit log.
type AdminOperationKind string

const (
	AdminOperationVerify       AdminOperationKind = "verify"
	AdminOperationDropOff      AdminOperationKind = "drop_off"
	AdminOperationClaim        AdminOperationKind = "claim"
	AdminOperationUpdateStatus AdminOperationKind = "update_status"
	AdminOperationAddNote      AdminOperationKind = "add_note"
)

var validAdminOperationKinds = []AdminOperationKind{
	AdminOperationVerify,
	AdminOperationDropOff,
	AdminOperationClaim,
	AdminOperationUpdateStatus,
	AdminOperationAddNote,
}

var adminOperationLabels = map[AdminOperationKind]string{
	AdminOperationVerify:       "Verify Item",
	AdminOperationDropOff:      "Mark as Dropped Off",
	AdminOperationClaim:        "Process Claim",
	AdminOperationUpdateStatus: "Update Status",
	AdminOperationAddNote:      "Add Note",
}

// IsValid reports whether the value is a known AdminOperationKind.
func (k AdminOperationKind) IsValid() bool {
	for _, candidate := range validAdminOperationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// Label returns the human readable name used in notification messages.
func (k AdminOperationKind) Label() string {
	if label, ok := adminOperationLabels[k]; ok {
		return label
	}
	return string(k)
}

// RequiresAdminAttention reports whether the operation nudges the staff inbox.
func (k AdminOperationKind) RequiresAdminAttention() bool {
	return k == AdminOperationVerify || k == AdminOperationDropOff || k == AdminOperationClaim
}

// ParseAdminOperationKind converts raw input into an AdminOperationKind.
func ParseAdminOperationKind(value string) (AdminOperationKind, error) {
	for _, candidate := range validAdminOperationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin operation %q", value)
}
