package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

type store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	ListLocations(ctx context.Context) ([]models.Location, error)
	FindLocation(ctx context.Context, locationType enums.LocationType, floorArea string) (*models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	ListCurrentBanners(ctx context.Context, day time.Time, limit int) ([]models.Banner, error)
	FindBannerByTitle(ctx context.Context, title string) (*models.Banner, error)
	CreateBanner(ctx context.Context, banner *models.Banner) error
}

// MaxBanners caps how many current banners are shown at once.
const MaxBanners = 5

// Service exposes the browse lists and the idempotent writes used by seeding.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListLocations(ctx context.Context) ([]LocationDTO, error)
	EnsureCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, bool, error)
	EnsureLocation(ctx context.Context, input LocationInput) (*LocationDTO, bool, error)
	ListBanners(ctx context.Context) ([]BannerDTO, error)
	EnsureBanner(ctx context.Context, input BannerInput) (*BannerDTO, bool, error)
}

type service struct {
	repo store
	now  func() time.Time
}

// NewService builds the catalog service.
func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

func (s *service) ListLocations(ctx context.Context) ([]LocationDTO, error) {
	rows, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	out := make([]LocationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLocationDTO(row))
	}
	return out, nil
}

// EnsureCategory returns the existing category with the same name or creates
// it. The bool reports whether a row was inserted.
func (s *service) EnsureCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	existing, err := s.repo.FindCategoryByName(ctx, name)
	if err == nil {
		dto := toCategoryDTO(*existing)
		return &dto, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find category")
	}

	category := &models.Category{
		Name:  name,
		Icon:  strings.TrimSpace(input.Icon),
		Color: strings.TrimSpace(input.Color),
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := toCategoryDTO(*category)
	return &dto, true, nil
}

// EnsureLocation is keyed on location type and floor area.
func (s *service) EnsureLocation(ctx context.Context, input LocationInput) (*LocationDTO, bool, error) {
	if !input.LocationType.IsValid() {
		return nil, false, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid location type %q", input.LocationType)
	}
	area := strings.TrimSpace(input.FloorArea)
	if area == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "floor area is required")
	}
	existing, err := s.repo.FindLocation(ctx, input.LocationType, area)
	if err == nil {
		dto := toLocationDTO(*existing)
		return &dto, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find location")
	}

	location := &models.Location{
		LocationType:     input.LocationType,
		FloorArea:        area,
		SpecificLocation: input.SpecificLocation,
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	dto := toLocationDTO(*location)
	return &dto, true, nil
}

// ListBanners returns the banners current today.
func (s *service) ListBanners(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.ListCurrentBanners(ctx, models.Day(s.now()), MaxBanners)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	out := make([]BannerDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBannerDTO(row))
	}
	return out, nil
}

// EnsureBanner is keyed on the title.
func (s *service) EnsureBanner(ctx context.Context, input BannerInput) (*BannerDTO, bool, error) {
	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "banner title is required")
	case !input.BannerType.IsValid():
		return nil, false, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid banner type %q", input.BannerType)
	case input.Priority < 0:
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "banner priority cannot be negative")
	}
	existing, err := s.repo.FindBannerByTitle(ctx, title)
	if err == nil {
		dto := toBannerDTO(*existing)
		return &dto, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find banner")
	}

	start := input.StartDate
	if start.IsZero() {
		start = s.now()
	}
	banner := &models.Banner{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		BannerType:  input.BannerType,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		URL:         strings.TrimSpace(input.URL),
		Sponsor:     strings.TrimSpace(input.Sponsor),
		IsActive:    input.IsActive == nil || *input.IsActive,
		StartDate:   models.Day(start),
		Priority:    input.Priority,
	}
	if input.EndDate != nil {
		end := models.Day(*input.EndDate)
		if end.Before(banner.StartDate) {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "banner end date is before its start date")
		}
		banner.EndDate = &end
	}
	if err := s.repo.CreateBanner(ctx, banner); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	dto := toBannerDTO(*banner)
	return &dto, true, nil
}
