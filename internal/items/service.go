package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/api/validators"
	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

const unknownClaimer = "Unknown User"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Creditor credits coins to a user ledger.
type Creditor interface {
	Credit(ctx context.Context, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error)
}

// UserLookup resolves the acting admin for audit text and events.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service runs the item lifecycle. Mutations return the events the caller
// should hand to the notifier once the write has committed.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*Outcome, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, filters ListFilters) (*ListResult, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateItemInput) (*Outcome, error)
	MarkClaimed(ctx context.Context, ownerID, id uuid.UUID, claimerName string) (*Outcome, error)
	Close(ctx context.Context, ownerID, id uuid.UUID) (*Outcome, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	AddImage(ctx context.Context, ownerID, id uuid.UUID, input ImageInput) (*ImageDTO, error)

	Verify(ctx context.Context, adminID, id uuid.UUID, notes string) (*Outcome, error)
	DropOff(ctx context.Context, adminID, id uuid.UUID, notes string) (*Outcome, error)
	ProcessClaim(ctx context.Context, adminID, id uuid.UUID, input ClaimInput) (*Outcome, error)
	UpdateStatus(ctx context.Context, adminID, id uuid.UUID, status enums.ItemStatus, notes string) (*Outcome, error)
	AddNote(ctx context.Context, adminID, id uuid.UUID, note string) (*Outcome, error)
	Operations(ctx context.Context, id uuid.UUID) ([]OperationDTO, error)
}

// Outcome is the result of an item mutation.
type Outcome struct {
	Item   *ItemDTO
	Events []events.Event
}

// Config tunes the lifecycle service.
type Config struct {
	ExpiryWindow time.Duration
	Now          func() time.Time
}

type service struct {
	repo    Repository
	tx      txRunner
	ledger  Creditor
	users   UserLookup
	logg    *logger.Logger
	expiry  time.Duration
	nowFunc func() time.Time
}

// NewService builds the item lifecycle service.
func NewService(repo Repository, tx txRunner, ledger Creditor, users UserLookup, logg *logger.Logger, cfg Config) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "items repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    repo,
		tx:      tx,
		ledger:  ledger,
		users:   users,
		logg:    logg,
		expiry:  cfg.ExpiryWindow,
		nowFunc: now,
	}, nil
}

func (s *service) now() time.Time {
	return s.nowFunc().UTC()
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*Outcome, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Kind:         input.Kind,
		Status:       enums.ItemStatusActive,
		CategoryID:   input.CategoryID,
		LocationID:   input.LocationID,
		ContactName:  strings.TrimSpace(input.ContactName),
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: input.ContactPhone,
		RewardCoins:  input.RewardCoins,
		IsUrgent:     input.IsUrgent,
		OwnerID:      ownerID,
		Images:       buildImages(input.Images),
	}

	var stored *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		var err error
		stored, err = repo.FindByID(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	ctx = s.logg.WithItemID(ctx, stored.ID.String())
	var emitted []events.Event
	if stored.Kind == enums.ItemKindFound {
		emitted = append(emitted, events.ItemFound{Item: *stored})
		if stored.RewardCoins > 0 {
			reason := fmt.Sprintf("Reward for posting found item: %s", stored.Title)
			if _, err := s.ledger.Credit(ctx, ownerID, stored.RewardCoins, reason); err != nil {
				s.logg.Error(ctx, "failed to credit found item reward", err)
			} else {
				itemID := stored.ID
				emitted = append(emitted, events.RewardEarned{UserID: ownerID, ItemID: &itemID, Amount: stored.RewardCoins, Reason: reason})
			}
		}
	}

	return s.outcome(*stored, emitted), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := toItemDTO(*item, s.effective(*item))
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResult, error) {
	if filters.Kind != nil && !filters.Kind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid item kind %q", *filters.Kind)
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid item status %q", *filters.Status)
	}
	params := listItemsParams{
		Kind:         filters.Kind,
		CategoryID:   filters.CategoryID,
		Status:       filters.Status,
		Search:       filters.Search,
		OwnerID:      filters.OwnerID,
		ExpiryCutoff: s.expiryCutoff(),
		Limit:        filters.Limit,
	}
	if filters.Cursor != "" {
		cursor, err := pagination.ParseCursor(filters.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	result := &ListResult{Items: make([]ItemDTO, 0, len(rows))}
	for _, row := range rows {
		result.Items = append(result.Items, toItemDTO(row, s.effective(row)))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.List(ctx, ListFilters{OwnerID: &ownerID, Limit: params.Limit, Cursor: params.Cursor})
}

// Update edits content only. It never changes status and never credits coins.
func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateItemInput) (*Outcome, error) {
	if input.RewardCoins != nil && *input.RewardCoins < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reward coins cannot be negative")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
	}
	if input.ContactEmail != nil && strings.TrimSpace(*input.ContactEmail) != "" {
		if !validators.IsEmail(strings.TrimSpace(*input.ContactEmail)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact email is invalid")
		}
	}

	var updated *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := s.loadOwned(ctx, repo, ownerID, id)
		if err != nil {
			return err
		}
		applyUpdate(item, input)
		if item.Kind == enums.ItemKindFound && (item.ContactName == "" || item.ContactEmail == "") {
			return pkgerrors.New(pkgerrors.CodeValidation, "found items require a contact name and email")
		}
		if err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
		}
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, asServiceError(err, "update item")
	}
	return s.outcome(*updated, nil), nil
}

func (s *service) MarkClaimed(ctx context.Context, ownerID, id uuid.UUID, claimerName string) (*Outcome, error) {
	return s.ownerTransition(ctx, ownerID, id, enums.ItemStatusClaimed, func(item *models.Item, now time.Time) []events.Event {
		item.ClaimedAt = &now
		if name := strings.TrimSpace(claimerName); name != "" {
			item.ClaimerName = name
		} else if item.ClaimerName == "" {
			item.ClaimerName = unknownClaimer
		}
		if item.ClaimedFromAdmin {
			return nil
		}
		return []events.Event{events.ItemClaimed{Item: *item, ClaimerName: item.ClaimerName}}
	})
}

func (s *service) Close(ctx context.Context, ownerID, id uuid.UUID) (*Outcome, error) {
	return s.ownerTransition(ctx, ownerID, id, enums.ItemStatusClosed, nil)
}

func (s *service) ownerTransition(ctx context.Context, ownerID, id uuid.UUID, target enums.ItemStatus, apply func(item *models.Item, now time.Time) []events.Event) (*Outcome, error) {
	var (
		updated *models.Item
		emitted []events.Event
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := s.loadOwned(ctx, repo, ownerID, id)
		if err != nil {
			return err
		}
		current := s.effective(*item)
		if current == target {
			updated = item
			return nil
		}
		if err := checkTransition(current, target); err != nil {
			return err
		}
		item.Status = target
		if apply != nil {
			emitted = apply(item, s.now())
		}
		if err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item status")
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "update item status")
	}
	return s.outcome(*updated, emitted), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadOwned(ctx, repo, ownerID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	return asServiceError(err, "delete item")
}

func (s *service) AddImage(ctx context.Context, ownerID, id uuid.UUID, input ImageInput) (*ImageDTO, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	var image *models.ItemImage
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadOwned(ctx, repo, ownerID, id); err != nil {
			return err
		}
		count, err := repo.CountImages(ctx, id)
		if err != nil {
			return err
		}
		primary := input.IsPrimary || count == 0
		if primary {
			if err := repo.ClearPrimaryImages(ctx, id); err != nil {
				return err
			}
		}
		image = &models.ItemImage{
			ID:        uuid.New(),
			ItemID:    id,
			URL:       url,
			Caption:   strings.TrimSpace(input.Caption),
			IsPrimary: primary,
		}
		return repo.AddImage(ctx, image)
	})
	if err != nil {
		return nil, asServiceError(err, "add item image")
	}
	dto := toImageDTO(*image)
	return &dto, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) loadOwned(ctx context.Context, repo Repository, ownerID, id uuid.UUID) (*models.Item, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	item, err := s.load(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can change this item")
	}
	return item, nil
}

func (s *service) effective(item models.Item) enums.ItemStatus {
	return EffectiveStatus(item, s.now(), s.expiry)
}

func (s *service) expiryCutoff() time.Time {
	if s.expiry <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.expiry)
}

func (s *service) outcome(item models.Item, emitted []events.Event) *Outcome {
	dto := toItemDTO(item, s.effective(item))
	return &Outcome{Item: &dto, Events: emitted}
}

func validateCreate(input CreateItemInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !input.Kind.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid item kind %q", input.Kind)
	}
	if input.RewardCoins < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reward coins cannot be negative")
	}
	email := strings.TrimSpace(input.ContactEmail)
	if input.Kind == enums.ItemKindFound && (strings.TrimSpace(input.ContactName) == "" || email == "") {
		return pkgerrors.New(pkgerrors.CodeValidation, "found items require a contact name and email")
	}
	if email != "" {
		if !validators.IsEmail(email) {
			return pkgerrors.New(pkgerrors.CodeValidation, "contact email is invalid")
		}
	}
	for _, img := range input.Images {
		if strings.TrimSpace(img.URL) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
		}
	}
	return nil
}

// buildImages keeps at most one primary image, defaulting to the first.
func buildImages(inputs []ImageInput) []models.ItemImage {
	if len(inputs) == 0 {
		return nil
	}
	primary := 0
	for i, in := range inputs {
		if in.IsPrimary {
			primary = i
			break
		}
	}
	images := make([]models.ItemImage, 0, len(inputs))
	for i, in := range inputs {
		images = append(images, models.ItemImage{
			ID:        uuid.New(),
			URL:       strings.TrimSpace(in.URL),
			Caption:   strings.TrimSpace(in.Caption),
			IsPrimary: i == primary,
		})
	}
	return images
}

func applyUpdate(item *models.Item, input UpdateItemInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.CategoryID != nil {
		item.CategoryID = input.CategoryID
	}
	if input.LocationID != nil {
		item.LocationID = input.LocationID
	}
	if input.ContactName != nil {
		item.ContactName = strings.TrimSpace(*input.ContactName)
	}
	if input.ContactEmail != nil {
		item.ContactEmail = strings.TrimSpace(*input.ContactEmail)
	}
	if input.ContactPhone != nil {
		item.ContactPhone = input.ContactPhone
	}
	if input.RewardCoins != nil {
		item.RewardCoins = *input.RewardCoins
	}
	if input.IsUrgent != nil {
		item.IsUrgent = *input.IsUrgent
	}
}

// asServiceError keeps typed errors and wraps everything else as a dependency failure.
func asServiceError(err error, message string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
