package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// Notification is an in-app message addressed to one user or broadcast to staff.
type Notification struct {
	ID               uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	Type             enums.NotificationType     `gorm:"column:type;type:text;not null"`
	Title            string                     `gorm:"column:title;type:text;not null"`
	Message          string                     `gorm:"column:message;type:text;not null"`
	Priority         enums.NotificationPriority `gorm:"column:priority;type:text;not null"`
	RecipientID      *uuid.UUID                 `gorm:"column:recipient_id;type:uuid;index"`
	IsAdminBroadcast bool                       `gorm:"column:is_admin_broadcast;not null"`
	ItemID           *uuid.UUID                 `gorm:"column:item_id;type:uuid"`
	Item             *Item                      `gorm:"foreignKey:ItemID"`
	AdminOperationID *uuid.UUID                 `gorm:"column:admin_operation_id;type:uuid"`
	IsRead           bool                       `gorm:"column:is_read;not null"`
	ReadAt           *time.Time                 `gorm:"column:read_at"`
	IsSent           bool                       `gorm:"column:is_sent;not null"`
	SentAt           *time.Time                 `gorm:"column:sent_at"`
	CreatedAt        time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

// NotificationTemplate is the email template for a notification type.
type NotificationTemplate struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null;uniqueIndex"`
	Subject   string                 `gorm:"column:subject;type:text;not null"`
	HTMLBody  string                 `gorm:"column:html_body;type:text;not null"`
	TextBody  string                 `gorm:"column:text_body;type:text;not null"`
	IsActive  bool                   `gorm:"column:is_active;not null"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
