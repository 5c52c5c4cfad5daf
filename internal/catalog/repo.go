package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/internal/repo"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// Repository persists categories, campus locations and banners.
type Repository struct {
	repo.Base
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindCategoryByName matches case-insensitively.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).Where("LOWER(name) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return r.DB(ctx).Create(category).Error
}

// ListLocations returns all locations ordered by type then area.
func (r *Repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	var rows []models.Location
	err := r.DB(ctx).Order("location_type ASC").Order("floor_area ASC").Find(&rows).Error
	return rows, err
}

// FindLocation looks a location up by its type and area.
func (r *Repository) FindLocation(ctx context.Context, locationType enums.LocationType, floorArea string) (*models.Location, error) {
	var location models.Location
	err := r.DB(ctx).
		Where("location_type = ? AND floor_area = ?", locationType, floorArea).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *Repository) CreateLocation(ctx context.Context, location *models.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	return r.DB(ctx).Create(location).Error
}

// ListCurrentBanners returns active banners whose window contains day, highest
// priority first, then most recently started.
func (r *Repository) ListCurrentBanners(ctx context.Context, day time.Time, limit int) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.DB(ctx).
		Where("is_active = ? AND start_date <= ?", true, day).
		Where("end_date IS NULL OR end_date >= ?", day).
		Order("priority DESC").
		Order("start_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindBannerByTitle(ctx context.Context, title string) (*models.Banner, error) {
	var banner models.Banner
	if err := r.DB(ctx).Where("title = ?", title).First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *Repository) CreateBanner(ctx context.Context, banner *models.Banner) error {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	return r.DB(ctx).Create(banner).Error
}
