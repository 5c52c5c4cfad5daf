// Package events defines the domain events returned by item, contact and
// reward operations. Callers hand them to the notifier explicitly; there is no
// bus.
package events

import (
	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// Event is implemented by every domain event.
type Event interface {
	Name() string
}

// ItemFound is raised when a found item is posted.
type ItemFound struct {
	Item models.Item
}

// ItemClaimed is raised when an item is claimed outside the admin custody flow.
type ItemClaimed struct {
	Item        models.Item
	ClaimerName string
}

// ItemVerified is raised when staff verify an item.
type ItemVerified struct {
	Item     models.Item
	Verifier models.User
}

// ItemDroppedOff is raised when an item is handed in at the admin desk.
type ItemDroppedOff struct {
	Item models.Item
}

// ItemReadyForClaim is raised when an item becomes collectable.
type ItemReadyForClaim struct {
	Item models.Item
}

// AdminActionRequired follows verify, drop-off and claim operations.
type AdminActionRequired struct {
	Item      models.Item
	Operation models.AdminOperation
}

// RewardEarned is raised after coins are credited to a user.
type RewardEarned struct {
	UserID uuid.UUID
	ItemID *uuid.UUID
	Amount int
	Reason string
}

// ContactReceived is raised when someone leaves a message on an item.
type ContactReceived struct {
	Item    models.Item
	Contact models.Contact
}

func (ItemFound) Name() string           { return string(enums.NotificationTypeItemFound) }
func (ItemClaimed) Name() string         { return string(enums.NotificationTypeItemClaimed) }
func (ItemVerified) Name() string        { return string(enums.NotificationTypeItemVerified) }
func (ItemDroppedOff) Name() string      { return string(enums.NotificationTypeItemDroppedOff) }
func (ItemReadyForClaim) Name() string   { return string(enums.NotificationTypeItemReadyClaim) }
func (AdminActionRequired) Name() string { return string(enums.NotificationTypeAdminAction) }
func (RewardEarned) Name() string        { return string(enums.NotificationTypeRewardEarned) }
func (ContactReceived) Name() string     { return string(enums.NotificationTypeContactReceived) }
