package contacts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/api/validators"
	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

const maxMessageLength = 2000

// ItemLookup loads the item a contact refers to.
type ItemLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// Service handles contact messages on items.
type Service interface {
	Create(ctx context.Context, itemID uuid.UUID, input CreateContactInput) (*ContactDTO, []events.Event, error)
	ListForOwner(ctx context.Context, ownerID, itemID uuid.UUID) ([]ContactDTO, error)
	MarkResponded(ctx context.Context, ownerID, contactID uuid.UUID) (*ContactDTO, error)
}

type service struct {
	repo  Repository
	items ItemLookup
	logg  *logger.Logger
}

// NewService builds the contacts service.
func NewService(repo Repository, items ItemLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contacts repository required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, items: items, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, itemID uuid.UUID, input CreateContactInput) (*ContactDTO, []events.Event, error) {
	if err := validateContact(input); err != nil {
		return nil, nil, err
	}
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}

	contact := &models.Contact{
		ID:      uuid.New(),
		ItemID:  item.ID,
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   trimmed(input.Phone),
		Message: strings.TrimSpace(input.Message),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact")
	}

	ctx = s.logg.WithItemID(ctx, item.ID.String())
	s.logg.Info(ctx, "contact message received")

	dto := toContactDTO(*contact)
	return &dto, []events.Event{events.ContactReceived{Item: *item, Contact: *contact}}, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID, itemID uuid.UUID) ([]ContactDTO, error) {
	if _, err := s.loadOwnedItem(ctx, ownerID, itemID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	out := make([]ContactDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toContactDTO(row))
	}
	return out, nil
}

func (s *service) MarkResponded(ctx context.Context, ownerID, contactID uuid.UUID) (*ContactDTO, error) {
	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
	}
	if _, err := s.loadOwnedItem(ctx, ownerID, contact.ItemID); err != nil {
		return nil, err
	}
	if !contact.IsResponded {
		if err := s.repo.MarkResponded(ctx, contact.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark contact responded")
		}
		contact.IsResponded = true
	}
	dto := toContactDTO(*contact)
	return &dto, nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) loadOwnedItem(ctx context.Context, ownerID, id uuid.UUID) (*models.Item, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the item owner can view its contacts")
	}
	return item, nil
}

func validateContact(input CreateContactInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		details["email"] = "required"
	} else if !validators.IsEmail(email) {
		details["email"] = "invalid"
	}
	msg := strings.TrimSpace(input.Message)
	switch {
	case msg == "":
		details["message"] = "required"
	case len([]rune(msg)) > maxMessageLength:
		details["message"] = "too long"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid contact message").WithDetails(details)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
