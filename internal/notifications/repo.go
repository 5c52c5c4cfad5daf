package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusfound/lostfound-backend/internal/repo"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

// Repository exposes persistence helpers for notifications and their templates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	MarkRead(ctx context.Context, scope readScope, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error)
	ActiveTemplate(ctx context.Context, notificationType enums.NotificationType) (*models.NotificationTemplate, error)
	UpsertTemplate(ctx context.Context, template *models.NotificationTemplate) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listNotificationsParams struct {
	RecipientID *uuid.UUID
	Broadcast   bool
	Limit       int
	Cursor      *pagination.Cursor
	UnreadOnly  bool
}

// readScope selects which rows a reader may mark. Staff may also mark
// broadcast rows.
type readScope struct {
	RecipientID      uuid.UUID
	IncludeBroadcast bool
}

type notificationMarkResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(notification).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Category").
		Preload("Item.Location").
		First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *repositoryImpl) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_sent": true, "sent_at": now, "updated_at": now}).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{})
	switch {
	case params.Broadcast:
		query = query.Where("is_admin_broadcast = ?", true)
	case params.RecipientID != nil:
		query = query.Where("recipient_id = ?", *params.RecipientID)
	}
	if params.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	err := query.
		Preload("Item").
		Scopes(repo.NewestFirst(params.Cursor, params.Limit)).
		Find(&notifications).Error
	if err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(notifications, params.Limit, func(n models.Notification) pagination.Cursor {
		return pagination.Cursor{CreatedAt: n.CreatedAt, ID: n.ID}
	})
	return page, next, nil
}

func (r *repositoryImpl) scoped(ctx context.Context, scope readScope, notificationID uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", notificationID)
	if scope.IncludeBroadcast {
		return query.Where("(recipient_id = ? OR is_admin_broadcast = ?)", scope.RecipientID, true)
	}
	return query.Where("recipient_id = ?", scope.RecipientID)
}

func (r *repositoryImpl) MarkRead(ctx context.Context, scope readScope, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	result := r.scoped(ctx, scope, notificationID).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if result.Error != nil {
		return notificationMarkResult{}, result.Error
	}

	mark := notificationMarkResult{Updated: result.RowsAffected > 0}
	if mark.Updated {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.scoped(ctx, scope, notificationID).Count(&count).Error; err != nil {
		return notificationMarkResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) ActiveTemplate(ctx context.Context, notificationType enums.NotificationType) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", notificationType, true).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// UpsertTemplate inserts or replaces the template for its type.
func (r *repositoryImpl) UpsertTemplate(ctx context.Context, template *models.NotificationTemplate) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "html_body", "text_body", "is_active", "updated_at"}),
	}).Create(template).Error
}
