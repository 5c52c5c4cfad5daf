package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

type CategoryInput struct {
	Name  string
	Icon  string
	Color string
}

type LocationInput struct {
	LocationType     enums.LocationType
	FloorArea        string
	SpecificLocation *string
}

// BannerInput seeds one banner. A zero StartDate means today and a nil
// IsActive means active.
type BannerInput struct {
	Title       string
	Description string
	BannerType  enums.BannerType
	ImageURL    string
	URL         string
	Sponsor     string
	IsActive    *bool
	StartDate   time.Time
	EndDate     *time.Time
	Priority    int
}

type CategoryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Icon  string    `json:"icon,omitempty"`
	Color string    `json:"color,omitempty"`
}

type LocationDTO struct {
	ID               uuid.UUID          `json:"id"`
	LocationType     enums.LocationType `json:"location_type"`
	LocationLabel    string             `json:"location_label"`
	FloorArea        string             `json:"floor_area"`
	SpecificLocation *string            `json:"specific_location,omitempty"`
	FullLocation     string             `json:"full_location"`
}

type BannerDTO struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	BannerType  enums.BannerType `json:"banner_type"`
	ImageURL    string           `json:"image_url,omitempty"`
	URL         string           `json:"url,omitempty"`
	Sponsor     string           `json:"sponsor,omitempty"`
	StartDate   string           `json:"start_date"`
	EndDate     *string          `json:"end_date,omitempty"`
	Priority    int              `json:"priority"`
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color}
}

func toLocationDTO(l models.Location) LocationDTO {
	return LocationDTO{
		ID:               l.ID,
		LocationType:     l.LocationType,
		LocationLabel:    l.LocationType.Label(),
		FloorArea:        l.FloorArea,
		SpecificLocation: l.SpecificLocation,
		FullLocation:     l.FullLocation(),
	}
}

func toBannerDTO(b models.Banner) BannerDTO {
	dto := BannerDTO{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		BannerType:  b.BannerType,
		ImageURL:    b.ImageURL,
		URL:         b.URL,
		Sponsor:     b.Sponsor,
		StartDate:   b.StartDate.Format(time.DateOnly),
		Priority:    b.Priority,
	}
	if b.EndDate != nil {
		end := b.EndDate.Format(time.DateOnly)
		dto.EndDate = &end
	}
	return dto
}
