package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// Category groups items for browsing (electronics, keys, documents...).
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	Icon      string    `gorm:"column:icon;type:text"`
	Color     string    `gorm:"column:color;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Location is a place on campus where an item was lost or found.
type Location struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	LocationType     enums.LocationType `gorm:"column:location_type;type:text;not null"`
	FloorArea        string             `gorm:"column:floor_area;type:text;not null"`
	SpecificLocation *string            `gorm:"column:specific_location;type:text"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// FullLocation renders "Type - Area" with the specific spot appended when present.
func (l Location) FullLocation() string {
	parts := []string{l.LocationType.Label(), l.FloorArea}
	if l.SpecificLocation != nil && strings.TrimSpace(*l.SpecificLocation) != "" {
		parts = append(parts, strings.TrimSpace(*l.SpecificLocation))
	}
	return strings.Join(parts, " - ")
}

// Banner is a sponsor, event, announcement or club promotion shown alongside
// the item lists. Dates are calendar days stored at UTC midnight.
type Banner struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title       string           `gorm:"column:title;type:text;not null;uniqueIndex"`
	Description string           `gorm:"column:description;type:text"`
	BannerType  enums.BannerType `gorm:"column:banner_type;type:text;not null"`
	ImageURL    string           `gorm:"column:image_url;type:text"`
	URL         string           `gorm:"column:url;type:text"`
	Sponsor     string           `gorm:"column:sponsor;type:text"`
	IsActive    bool             `gorm:"column:is_active;not null"`
	StartDate   time.Time        `gorm:"column:start_date;type:date;not null"`
	EndDate     *time.Time       `gorm:"column:end_date;type:date"`
	Priority    int              `gorm:"column:priority;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// IsCurrent reports whether the banner is active and today falls inside its
// start/end window. A nil end date never lapses.
func (b Banner) IsCurrent(today time.Time) bool {
	day := Day(today)
	if !b.IsActive || Day(b.StartDate).After(day) {
		return false
	}
	return b.EndDate == nil || !Day(*b.EndDate).Before(day)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
