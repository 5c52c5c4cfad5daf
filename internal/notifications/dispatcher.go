package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/mail"
	"github.com/campusfound/lostfound-backend/pkg/metrics"
)

// RecipientDirectory resolves users and the staff mailing list.
type RecipientDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ActiveStaffEmails(ctx context.Context) ([]string, error)
}

// RaiseInput describes one notification row.
type RaiseInput struct {
	Type             enums.NotificationType
	Title            string
	Message          string
	RecipientID      *uuid.UUID
	AdminBroadcast   bool
	Item             *models.Item
	AdminOperationID *uuid.UUID
	Priority         enums.NotificationPriority
}

// Result reports what happened to a raised notification. Delivery problems
// never surface as errors; they are reported in DeliveryErr.
type Result struct {
	Notification *models.Notification
	Delivered    bool
	DeliveryErr  error
}

// DispatcherConfig configures rendering and the clock.
type DispatcherConfig struct {
	SiteURL string
	Now     func() time.Time
}

// Dispatcher persists notifications and emails them through the mail sender.
type Dispatcher struct {
	repo      Repository
	directory RecipientDirectory
	sender    mail.Sender
	metrics   *metrics.NotificationMetrics
	logg      *logger.Logger
	siteURL   string
	now       func() time.Time
}

// NewDispatcher wires the dispatcher. Metrics may be nil.
func NewDispatcher(repo Repository, directory RecipientDirectory, sender mail.Sender, recorder *metrics.NotificationMetrics, logg *logger.Logger, cfg DispatcherConfig) (*Dispatcher, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if directory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "recipient directory required")
	}
	if sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mail sender required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		repo:      repo,
		directory: directory,
		sender:    sender,
		metrics:   recorder,
		logg:      logg,
		siteURL:   cfg.SiteURL,
		now:       now,
	}, nil
}

// RaiseEvent creates one notification row and, when it is addressed to a user
// or to staff, attempts delivery. Only validation and persistence failures
// are returned as errors.
func (d *Dispatcher) RaiseEvent(ctx context.Context, input RaiseInput) (*Result, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification type %q", input.Type)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification title is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.NotificationPriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification priority %q", priority)
	}

	n := &models.Notification{
		ID:               uuid.New(),
		Type:             input.Type,
		Title:            strings.TrimSpace(input.Title),
		Message:          strings.TrimSpace(input.Message),
		Priority:         priority,
		RecipientID:      input.RecipientID,
		IsAdminBroadcast: input.AdminBroadcast,
		AdminOperationID: input.AdminOperationID,
	}
	if input.Item != nil {
		itemID := input.Item.ID
		n.ItemID = &itemID
	}
	if err := d.repo.Create(ctx, n); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	d.metrics.IncCreated(string(n.Type))
	n.Item = input.Item

	result := &Result{Notification: n}
	if n.RecipientID == nil && !n.IsAdminBroadcast {
		return result, nil
	}
	if err := d.Deliver(ctx, n); err != nil {
		result.DeliveryErr = err
		return result, nil
	}
	result.Delivered = true
	return result, nil
}

// Deliver renders the active template for the notification type and hands
// the message to the mail sender. On success the row is marked sent.
func (d *Dispatcher) Deliver(ctx context.Context, n *models.Notification) error {
	start := d.now()
	ctx = d.logg.WithFields(ctx, map[string]any{
		"notification_id":   n.ID.String(),
		"notification_type": string(n.Type),
	})
	outcome := metrics.OutcomeSent
	defer func() {
		d.metrics.ObserveDelivery(string(n.Type), outcome, d.now().Sub(start))
	}()

	tmpl, err := d.repo.ActiveTemplate(ctx, n.Type)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = metrics.OutcomeTemplateMissing
			d.logg.Warn(ctx, "no active email template for notification type")
			return ErrTemplateMissing
		}
		outcome = metrics.OutcomeDeliveryFailed
		d.logg.Error(ctx, "failed to load notification template", err)
		return &DeliveryError{NotificationID: n.ID, Err: err}
	}

	recipients, user, err := d.resolve(ctx, n)
	if err != nil {
		outcome = metrics.OutcomeDeliveryFailed
		d.logg.Error(ctx, "failed to resolve notification recipients", err)
		return &DeliveryError{NotificationID: n.ID, Err: err}
	}
	if len(recipients) == 0 {
		outcome = metrics.OutcomeNoRecipients
		d.logg.Warn(ctx, "no recipients found for notification")
		return ErrNoRecipients
	}

	content, err := render(tmpl, templateContext(n, n.Item, user, d.siteURL))
	if err != nil {
		outcome = metrics.OutcomeRenderFailed
		d.logg.Error(ctx, "failed to render notification template", err)
		return err
	}

	msg := mail.Message{To: recipients, Subject: content.Subject, Text: content.Text, HTML: content.HTML}
	if err := d.sender.Send(ctx, msg); err != nil {
		outcome = metrics.OutcomeDeliveryFailed
		d.logg.Error(ctx, "failed to send notification email", err)
		return &DeliveryError{NotificationID: n.ID, Err: err}
	}

	sentAt := d.now().UTC()
	if err := d.repo.MarkSent(ctx, n.ID, sentAt); err != nil {
		outcome = metrics.OutcomeDeliveryFailed
		d.logg.Error(ctx, "email sent but notification could not be marked sent", err)
		return &DeliveryError{NotificationID: n.ID, Err: err}
	}
	n.IsSent = true
	n.SentAt = &sentAt
	d.logg.Info(ctx, "notification email sent")
	return nil
}

// Resend repeats delivery for an existing row.
func (d *Dispatcher) Resend(ctx context.Context, id uuid.UUID) (*Result, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}
	n, err := d.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	result := &Result{Notification: n}
	if err := d.Deliver(ctx, n); err != nil {
		result.DeliveryErr = err
		return result, nil
	}
	result.Delivered = true
	return result, nil
}

// resolve returns the address list and the user exposed to templates: the
// recipient when there is one, otherwise the item owner.
func (d *Dispatcher) resolve(ctx context.Context, n *models.Notification) ([]string, *models.User, error) {
	var recipients []string
	var user *models.User

	switch {
	case n.RecipientID != nil:
		recipient, err := d.directory.FindByID(ctx, *n.RecipientID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		if recipient != nil && recipient.IsActive && recipient.Email != "" {
			recipients = []string{recipient.Email}
			user = recipient
		}
	case n.IsAdminBroadcast:
		emails, err := d.directory.ActiveStaffEmails(ctx)
		if err != nil {
			return nil, nil, err
		}
		recipients = emails
	}

	if user == nil && n.Item != nil && len(recipients) > 0 {
		owner, err := d.directory.FindByID(ctx, n.Item.OwnerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		user = owner
	}
	return recipients, user, nil
}
