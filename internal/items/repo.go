package items

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusfound/lostfound-backend/internal/repo"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

// Repository persists items, their images and the admin audit log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Save(ctx context.Context, item *models.Item) error
	List(ctx context.Context, params listItemsParams) ([]models.Item, *pagination.Cursor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddImage(ctx context.Context, image *models.ItemImage) error
	ClearPrimaryImages(ctx context.Context, itemID uuid.UUID) error
	CountImages(ctx context.Context, itemID uuid.UUID) (int64, error)
	CreateOperation(ctx context.Context, op *models.AdminOperation) error
	ListOperations(ctx context.Context, itemID uuid.UUID) ([]models.AdminOperation, error)
}

type repository struct {
	db *gorm.DB
}

type listItemsParams struct {
	Kind         *enums.ItemKind
	CategoryID   *uuid.UUID
	Status       *enums.ItemStatus
	Search       string
	OwnerID      *uuid.UUID
	ExpiryCutoff time.Time
	Limit        int
	Cursor       *pagination.Cursor
}

// NewRepository returns an items repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	for i := range item.Images {
		if item.Images[i].ID == uuid.Nil {
			item.Images[i].ID = uuid.New()
		}
		item.Images[i].ItemID = item.ID
	}
	return r.db.WithContext(ctx).Omit("Category", "Location", "Owner").Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Location").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, uploaded_at ASC") }).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Save writes every column of the item; associations are left alone.
func (r *repository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

func (r *repository) List(ctx context.Context, params listItemsParams) ([]models.Item, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Item{})
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.OwnerID != nil {
		query = query.Where("owner_id = ?", *params.OwnerID)
	}
	if params.Status != nil {
		query = applyStatusFilter(query, *params.Status, params.ExpiryCutoff)
	}
	if term := strings.ToLower(strings.TrimSpace(params.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR category_id IN (?)",
			like, like,
			r.db.Model(&models.Category{}).Select("id").Where("LOWER(name) LIKE ?", like),
		)
	}
	var rows []models.Item
	err := query.
		Preload("Category").
		Preload("Location").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, uploaded_at ASC") }).
		Scopes(repo.NewestFirst(params.Cursor, params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, params.Limit, func(item models.Item) pagination.Cursor {
		return pagination.Cursor{CreatedAt: item.CreatedAt, ID: item.ID}
	})
	return page, next, nil
}

// applyStatusFilter maps the derived expired status onto stored columns.
func applyStatusFilter(query *gorm.DB, status enums.ItemStatus, cutoff time.Time) *gorm.DB {
	switch status {
	case enums.ItemStatusExpired:
		return query.Where("status = ? AND created_at < ?", enums.ItemStatusActive, cutoff)
	case enums.ItemStatusActive:
		return query.Where("status = ? AND created_at >= ?", enums.ItemStatusActive, cutoff)
	default:
		return query.Where("status = ?", status)
	}
}

// Delete removes the item and everything hanging off it. Callers run it in a transaction.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("item_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	for _, child := range []any{&models.AdminOperation{}, &models.Contact{}, &models.ItemImage{}} {
		if err := db.Where("item_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	result := db.Delete(&models.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddImage(ctx context.Context, image *models.ItemImage) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *repository) ClearPrimaryImages(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ItemImage{}).
		Where("item_id = ? AND is_primary = ?", itemID, true).
		UpdateColumn("is_primary", false).Error
}

func (r *repository) CountImages(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ItemImage{}).Where("item_id = ?", itemID).Count(&count).Error
	return count, err
}

func (r *repository) CreateOperation(ctx context.Context, op *models.AdminOperation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *repository) ListOperations(ctx context.Context, itemID uuid.UUID) ([]models.AdminOperation, error) {
	var ops []models.AdminOperation
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&ops).Error
	return ops, err
}
