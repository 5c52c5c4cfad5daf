package enums

import "fmt"

// ItemKind distinguishes lost reports from found reports.
type ItemKind string

const (
	ItemKindLost  ItemKind = "lost"
	ItemKindFound ItemKind = "found"
)

var validItemKinds = []ItemKind{ItemKindLost, ItemKindFound}

// String implements fmt.Stringer.
func (k ItemKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ItemKind.
func (k ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseItemKind converts raw input into an ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}

// ItemStatus tracks where an item sits in its lifecycle.
type ItemStatus string

const (
	ItemStatusActive              ItemStatus = "active"
	ItemStatusClaimed             ItemStatus = "claimed"
	ItemStatusExpired             ItemStatus = "expired"
	ItemStatusClosed              ItemStatus = "closed"
	ItemStatusPendingVerification ItemStatus = "pending_verification"
	ItemStatusVerified            ItemStatus = "verified"
	ItemStatusDroppedOff          ItemStatus = "dropped_off"
	ItemStatusReadyForClaim       ItemStatus = "ready_for_claim"
)

var validItemStatuses = []ItemStatus{
	ItemStatusActive,
	ItemStatusClaimed,
	ItemStatusExpired,
	ItemStatusClosed,
	ItemStatusPendingVerification,
	ItemStatusVerified,
	ItemStatusDroppedOff,
	ItemStatusReadyForClaim,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave this status.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusClaimed || s == ItemStatusClosed
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
