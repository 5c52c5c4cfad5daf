package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// Item is a lost or found report together with its custody state.
type Item struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title        string           `gorm:"column:title;type:text;not null"`
	Description  string           `gorm:"column:description;type:text;not null"`
	Kind         enums.ItemKind   `gorm:"column:kind;type:text;not null;index"`
	Status       enums.ItemStatus `gorm:"column:status;type:text;not null;index"`
	CategoryID   *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Category     *Category        `gorm:"foreignKey:CategoryID"`
	LocationID   *uuid.UUID       `gorm:"column:location_id;type:uuid"`
	Location     *Location        `gorm:"foreignKey:LocationID"`
	ContactName  string           `gorm:"column:contact_name;type:text"`
	ContactEmail string           `gorm:"column:contact_email;type:text"`
	ContactPhone *string          `gorm:"column:contact_phone;type:text"`
	RewardCoins  int              `gorm:"column:reward_coins;not null"`
	IsUrgent     bool             `gorm:"column:is_urgent;not null"`
	OwnerID      uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index"`
	Owner        *User            `gorm:"foreignKey:OwnerID"`
	ClaimedAt    *time.Time       `gorm:"column:claimed_at"`

	AdminVerified bool       `gorm:"column:admin_verified;not null"`
	VerifiedByID  *uuid.UUID `gorm:"column:verified_by_id;type:uuid"`
	VerifiedAt    *time.Time `gorm:"column:verified_at"`
	AdminNotes    string     `gorm:"column:admin_notes;type:text"`

	DroppedAtAdmin bool       `gorm:"column:dropped_at_admin;not null"`
	DroppedAt      *time.Time `gorm:"column:dropped_at"`

	ClaimedFromAdmin   bool       `gorm:"column:claimed_from_admin;not null"`
	ClaimedFromAdminAt *time.Time `gorm:"column:claimed_from_admin_at"`
	ClaimerName        string     `gorm:"column:claimer_name;type:text"`
	ClaimerIDVerified  bool       `gorm:"column:claimer_id_verified;not null"`

	Images []ItemImage `gorm:"foreignKey:ItemID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ItemImage references a picture of an item by URL.
type ItemImage struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null;index"`
	URL        string    `gorm:"column:url;type:text;not null"`
	Caption    string    `gorm:"column:caption;type:text"`
	IsPrimary  bool      `gorm:"column:is_primary;not null"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}

// Contact is a message left on an item by someone who may own or have found it.
type Contact struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID      uuid.UUID `gorm:"column:item_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;type:text;not null"`
	Email       string    `gorm:"column:email;type:text;not null"`
	Phone       *string   `gorm:"column:phone;type:text"`
	Message     string    `gorm:"column:message;type:text;not null"`
	IsResponded bool      `gorm:"column:is_responded;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// AdminOperation is an immutable audit row for a staff action on an item.
type AdminOperation struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	ItemID         uuid.UUID                `gorm:"column:item_id;type:uuid;not null;index"`
	Operation      enums.AdminOperationKind `gorm:"column:operation;type:text;not null"`
	AdminID        uuid.UUID                `gorm:"column:admin_id;type:uuid;not null"`
	Notes          string                   `gorm:"column:notes;type:text"`
	PreviousStatus enums.ItemStatus         `gorm:"column:previous_status;type:text"`
	NewStatus      enums.ItemStatus         `gorm:"column:new_status;type:text"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
}
