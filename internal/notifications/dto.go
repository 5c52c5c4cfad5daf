package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// NotificationDTO is the inbox shape of a notification.
type NotificationDTO struct {
	ID               uuid.UUID                  `json:"id"`
	Type             enums.NotificationType     `json:"type"`
	Title            string                     `json:"title"`
	Message          string                     `json:"message"`
	Priority         enums.NotificationPriority `json:"priority"`
	IsUrgent         bool                       `json:"is_urgent"`
	IsAdminBroadcast bool                       `json:"is_admin_broadcast"`
	ItemID           *uuid.UUID                 `json:"item_id,omitempty"`
	ItemTitle        string                     `json:"item_title,omitempty"`
	AdminOperationID *uuid.UUID                 `json:"admin_operation_id,omitempty"`
	IsRead           bool                       `json:"is_read"`
	ReadAt           *time.Time                 `json:"read_at,omitempty"`
	IsSent           bool                       `json:"is_sent"`
	SentAt           *time.Time                 `json:"sent_at,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// IsUrgent flags urgent-priority rows, item_found and admin_action rows, and
// anything about an item marked urgent.
func IsUrgent(n models.Notification) bool {
	if n.Priority == enums.NotificationPriorityUrgent {
		return true
	}
	if n.Type == enums.NotificationTypeItemFound || n.Type == enums.NotificationTypeAdminAction {
		return true
	}
	return n.Item != nil && n.Item.IsUrgent
}

func toDTO(n models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:               n.ID,
		Type:             n.Type,
		Title:            n.Title,
		Message:          n.Message,
		Priority:         n.Priority,
		IsUrgent:         IsUrgent(n),
		IsAdminBroadcast: n.IsAdminBroadcast,
		ItemID:           n.ItemID,
		AdminOperationID: n.AdminOperationID,
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		IsSent:           n.IsSent,
		SentAt:           n.SentAt,
		CreatedAt:        n.CreatedAt,
	}
	if n.Item != nil {
		dto.ItemTitle = n.Item.Title
	}
	return dto
}
