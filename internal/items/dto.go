package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// CreateItemInput is the payload for posting a lost or found item.
type CreateItemInput struct {
	Title        string
	Description  string
	Kind         enums.ItemKind
	CategoryID   *uuid.UUID
	LocationID   *uuid.UUID
	ContactName  string
	ContactEmail string
	ContactPhone *string
	RewardCoins  int
	IsUrgent     bool
	Images       []ImageInput
}

// UpdateItemInput carries content edits; nil fields are left untouched.
type UpdateItemInput struct {
	Title        *string
	Description  *string
	CategoryID   *uuid.UUID
	LocationID   *uuid.UUID
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	RewardCoins  *int
	IsUrgent     *bool
}

// ImageInput references an image hosted elsewhere.
type ImageInput struct {
	URL       string
	Caption   string
	IsPrimary bool
}

// ListFilters narrows item listings.
type ListFilters struct {
	Kind       *enums.ItemKind
	CategoryID *uuid.UUID
	Status     *enums.ItemStatus
	Search     string
	OwnerID    *uuid.UUID
	Limit      int
	Cursor     string
}

// ItemDTO is the API shape of an item with its effective status.
type ItemDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Kind               enums.ItemKind   `json:"kind"`
	Status             enums.ItemStatus `json:"status"`
	Category           *CategoryRef     `json:"category,omitempty"`
	Location           *LocationRef     `json:"location,omitempty"`
	ContactName        string           `json:"contact_name,omitempty"`
	ContactEmail       string           `json:"contact_email,omitempty"`
	ContactPhone       *string          `json:"contact_phone,omitempty"`
	RewardCoins        int              `json:"reward_coins"`
	IsUrgent           bool             `json:"is_urgent"`
	OwnerID            uuid.UUID        `json:"owner_id"`
	ClaimedAt          *time.Time       `json:"claimed_at,omitempty"`
	AdminVerified      bool             `json:"admin_verified"`
	VerifiedAt         *time.Time       `json:"verified_at,omitempty"`
	DroppedAtAdmin     bool             `json:"dropped_at_admin"`
	DroppedAt          *time.Time       `json:"dropped_at,omitempty"`
	ClaimedFromAdmin   bool             `json:"claimed_from_admin"`
	ClaimedFromAdminAt *time.Time       `json:"claimed_from_admin_at,omitempty"`
	ClaimerName        string           `json:"claimer_name,omitempty"`
	Images             []ImageDTO       `json:"images"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CategoryRef is the embedded category summary.
type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Icon  string    `json:"icon,omitempty"`
	Color string    `json:"color,omitempty"`
}

// LocationRef is the embedded location summary.
type LocationRef struct {
	ID           uuid.UUID `json:"id"`
	FullLocation string    `json:"full_location"`
}

// ImageDTO is the API shape of an item image.
type ImageDTO struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ListResult wraps a page of items and the cursor for the next page.
type ListResult struct {
	Items  []ItemDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

// OperationDTO is the API shape of an audit row.
type OperationDTO struct {
	ID             uuid.UUID                `json:"id"`
	Operation      enums.AdminOperationKind `json:"operation"`
	Label          string                   `json:"label"`
	AdminID        uuid.UUID                `json:"admin_id"`
	Notes          string                   `json:"notes,omitempty"`
	PreviousStatus enums.ItemStatus         `json:"previous_status,omitempty"`
	NewStatus      enums.ItemStatus         `json:"new_status,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

func toItemDTO(item models.Item, status enums.ItemStatus) ItemDTO {
	dto := ItemDTO{
		ID:                 item.ID,
		Title:              item.Title,
		Description:        item.Description,
		Kind:               item.Kind,
		Status:             status,
		ContactName:        item.ContactName,
		ContactEmail:       item.ContactEmail,
		ContactPhone:       item.ContactPhone,
		RewardCoins:        item.RewardCoins,
		IsUrgent:           item.IsUrgent,
		OwnerID:            item.OwnerID,
		ClaimedAt:          item.ClaimedAt,
		AdminVerified:      item.AdminVerified,
		VerifiedAt:         item.VerifiedAt,
		DroppedAtAdmin:     item.DroppedAtAdmin,
		DroppedAt:          item.DroppedAt,
		ClaimedFromAdmin:   item.ClaimedFromAdmin,
		ClaimedFromAdminAt: item.ClaimedFromAdminAt,
		ClaimerName:        item.ClaimerName,
		Images:             make([]ImageDTO, 0, len(item.Images)),
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
	if item.Category != nil {
		dto.Category = &CategoryRef{ID: item.Category.ID, Name: item.Category.Name, Icon: item.Category.Icon, Color: item.Category.Color}
	}
	if item.Location != nil {
		dto.Location = &LocationRef{ID: item.Location.ID, FullLocation: item.Location.FullLocation()}
	}
	for _, img := range item.Images {
		dto.Images = append(dto.Images, toImageDTO(img))
	}
	return dto
}

func toImageDTO(img models.ItemImage) ImageDTO {
	return ImageDTO{ID: img.ID, URL: img.URL, Caption: img.Caption, IsPrimary: img.IsPrimary, UploadedAt: img.UploadedAt}
}

func toOperationDTO(op models.AdminOperation) OperationDTO {
	return OperationDTO{
		ID:             op.ID,
		Operation:      op.Operation,
		Label:          op.Operation.Label(),
		AdminID:        op.AdminID,
		Notes:          op.Notes,
		PreviousStatus: op.PreviousStatus,
		NewStatus:      op.NewStatus,
		CreatedAt:      op.CreatedAt,
	}
}
