package enums

import "fmt"

// NotificationType identifies the template and routing for a notification.
type NotificationType string

const (
	NotificationTypeItemFound       NotificationType = "item_found"
	NotificationTypeItemClaimed     NotificationType = "item_claimed"
	NotificationTypeItemVerified    NotificationType = "item_verified"
	NotificationTypeItemDroppedOff  NotificationType = "item_dropped_off"
	NotificationTypeItemReadyClaim  NotificationType = "item_ready_claim"
	NotificationTypeAdminAction     NotificationType = "admin_action"
	NotificationTypeSystemAlert     NotificationType = "system_alert"
	NotificationTypeRewardEarned    NotificationType = "reward_earned"
	NotificationTypeContactReceived NotificationType = "contact_received"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeItemFound,
	NotificationTypeItemClaimed,
	NotificationTypeItemVerified,
	NotificationTypeItemDroppedOff,
	NotificationTypeItemReadyClaim,
	NotificationTypeAdminAction,
	NotificationTypeSystemAlert,
	NotificationTypeRewardEarned,
	NotificationTypeContactReceived,
}

// NotificationTypes returns every known notification type in display order.
func NotificationTypes() []NotificationType {
	return append([]NotificationType(nil), validNotificationTypes...)
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// NotificationPriority orders notifications in inboxes.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

var validNotificationPriorities = []NotificationPriority{
	NotificationPriorityLow,
	NotificationPriorityMedium,
	NotificationPriorityHigh,
	NotificationPriorityUrgent,
}

// IsValid checks whether the priority is known.
func (p NotificationPriority) IsValid() bool {
	for _, candidate := range validNotificationPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseNotificationPriority converts raw strings into NotificationPriority.
func ParseNotificationPriority(value string) (NotificationPriority, error) {
	for _, candidate := range validNotificationPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification priority %q", value)
}
