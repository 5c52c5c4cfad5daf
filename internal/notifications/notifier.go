package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

const contactPreviewLen = 100

type raiser interface {
	RaiseEvent(ctx context.Context, input RaiseInput) (*Result, error)
}

// Notifier turns domain events into notification rows. It never fails the
// caller: every error is logged and dropped.
type Notifier struct {
	dispatcher raiser
	logg       *logger.Logger
}

// NewNotifier builds a notifier over the dispatcher.
func NewNotifier(dispatcher *Dispatcher, logg *logger.Logger) *Notifier {
	if dispatcher == nil {
		return newNotifier(nil, logg)
	}
	return newNotifier(dispatcher, logg)
}

func newNotifier(dispatcher raiser, logg *logger.Logger) *Notifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Notifier{dispatcher: dispatcher, logg: logg}
}

// Notify raises the notifications for each event and returns the results of
// the rows it created.
func (n *Notifier) Notify(ctx context.Context, evts ...events.Event) []*Result {
	if n == nil || n.dispatcher == nil {
		return nil
	}
	var (
		results []*Result
		errs    error
	)
	for _, evt := range evts {
		for _, input := range inputsFor(evt) {
			result, err := n.dispatcher.RaiseEvent(ctx, input)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", evt.Name(), err))
				continue
			}
			results = append(results, result)
			if result.DeliveryErr != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s delivery: %w", evt.Name(), result.DeliveryErr))
			}
		}
	}
	if errs != nil {
		n.logg.WarnErr(ctx, fmt.Sprintf("%d notification problem(s) while fanning out events", len(multierr.Errors(errs))), errs)
	}
	return results
}

func inputsFor(evt events.Event) []RaiseInput {
	switch e := evt.(type) {
	case events.ItemFound:
		item := e.Item
		return []RaiseInput{
			broadcast(enums.NotificationTypeItemFound, enums.NotificationPriorityHigh, &item,
				fmt.Sprintf("New Found Item: %s", item.Title),
				fmt.Sprintf("A new item '%s' has been found and posted to the Lost & Found system.", item.Title)),
			direct(enums.NotificationTypeItemFound, item.OwnerID, &item,
				fmt.Sprintf("Your Found Item Posted: %s", item.Title),
				fmt.Sprintf("Your found item '%s' has been successfully posted to the Lost & Found system.", item.Title)),
		}
	case events.ItemClaimed:
		item := e.Item
		title := fmt.Sprintf("Item Claimed: %s", item.Title)
		message := fmt.Sprintf("The item '%s' has been claimed by %s.", item.Title, e.ClaimerName)
		return []RaiseInput{
			direct(enums.NotificationTypeItemClaimed, item.OwnerID, &item, title, message),
			broadcast(enums.NotificationTypeItemClaimed, enums.NotificationPriorityMedium, &item, title, message),
		}
	case events.ItemVerified:
		item := e.Item
		return []RaiseInput{
			direct(enums.NotificationTypeItemVerified, item.OwnerID, &item,
				fmt.Sprintf("Item Verified: %s", item.Title),
				fmt.Sprintf("Your item '%s' has been verified by admin %s.", item.Title, e.Verifier.FullName())),
		}
	case events.ItemDroppedOff:
		item := e.Item
		return []RaiseInput{
			broadcast(enums.NotificationTypeItemDroppedOff, enums.NotificationPriorityHigh, &item,
				fmt.Sprintf("Item Dropped Off: %s", item.Title),
				fmt.Sprintf("The item '%s' has been dropped off at the admin section and is ready for verification.", item.Title)),
		}
	case events.ItemReadyForClaim:
		item := e.Item
		return []RaiseInput{
			direct(enums.NotificationTypeItemReadyClaim, item.OwnerID, &item,
				fmt.Sprintf("Item Ready for Claim: %s", item.Title),
				fmt.Sprintf("The item '%s' has been verified and is ready for claim at the admin section.", item.Title)),
		}
	case events.AdminActionRequired:
		item := e.Item
		opID := e.Operation.ID
		input := broadcast(enums.NotificationTypeAdminAction, enums.NotificationPriorityHigh, &item,
			fmt.Sprintf("Admin Action Required: %s", item.Title),
			fmt.Sprintf("Action required for item '%s': %s", item.Title, e.Operation.Operation.Label()))
		input.AdminOperationID = &opID
		return []RaiseInput{input}
	case events.RewardEarned:
		userID := e.UserID
		return []RaiseInput{{
			Type:        enums.NotificationTypeRewardEarned,
			Title:       fmt.Sprintf("Reward Earned: %d coins", e.Amount),
			Message:     fmt.Sprintf("You have earned %d reward coins for: %s", e.Amount, e.Reason),
			RecipientID: &userID,
			Priority:    enums.NotificationPriorityMedium,
		}}
	case events.ContactReceived:
		item := e.Item
		title := fmt.Sprintf("New Contact Message for: %s", item.Title)
		message := fmt.Sprintf("New message from %s regarding item '%s': %s", e.Contact.Name, item.Title, preview(e.Contact.Message))
		return []RaiseInput{
			direct(enums.NotificationTypeContactReceived, item.OwnerID, &item, title, message),
			broadcast(enums.NotificationTypeContactReceived, enums.NotificationPriorityMedium, &item, title, message),
		}
	default:
		return nil
	}
}

func direct(kind enums.NotificationType, recipient uuid.UUID, item *models.Item, title, message string) RaiseInput {
	input := RaiseInput{
		Type:     kind,
		Title:    title,
		Message:  message,
		Item:     item,
		Priority: enums.NotificationPriorityMedium,
	}
	if recipient != uuid.Nil {
		input.RecipientID = &recipient
	}
	return input
}

func broadcast(kind enums.NotificationType, priority enums.NotificationPriority, item *models.Item, title, message string) RaiseInput {
	return RaiseInput{
		Type:           kind,
		Title:          title,
		Message:        message,
		AdminBroadcast: true,
		Item:           item,
		Priority:       priority,
	}
}

func preview(message string) string {
	runes := []rune(message)
	if len(runes) <= contactPreviewLen {
		return message
	}
	return string(runes[:contactPreviewLen]) + "..."
}
