package notifications

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrTemplateMissing means no active template exists for the notification type.
	ErrTemplateMissing = errors.New("no active notification template")
	// ErrNoRecipients means the notification resolved to an empty address list.
	ErrNoRecipients = errors.New("notification has no recipients")
)

// RenderError reports a template that could not be executed against the
// notification context, typically because it references an unknown key.
type RenderError struct {
	Part string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Part, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// DeliveryError wraps a failed hand-off to the mail sender. The row stays
// unsent and can be resent.
type DeliveryError struct {
	NotificationID uuid.UUID
	Err            error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification %s: %v", e.NotificationID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
