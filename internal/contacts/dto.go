package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
)

// CreateContactInput is the public contact form payload.
type CreateContactInput struct {
	Name    string
	Email   string
	Phone   *string
	Message string
}

// ContactDTO is returned to item owners.
type ContactDTO struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Message     string    `json:"message"`
	IsResponded bool      `json:"is_responded"`
	CreatedAt   time.Time `json:"created_at"`
}

func toContactDTO(c models.Contact) ContactDTO {
	return ContactDTO{
		ID:          c.ID,
		ItemID:      c.ItemID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Message:     c.Message,
		IsResponded: c.IsResponded,
		CreatedAt:   c.CreatedAt,
	}
}
