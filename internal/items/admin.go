package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

const noteTimeLayout = "2006-01-02 15:04"

// ClaimInput describes a hand-over at the admin desk.
type ClaimInput struct {
	ClaimerName string
	IDVerified  bool
	Notes       string
}

// adminChange mutates a loaded item and returns the events to raise.
type adminChange func(item *models.Item, admin *models.User, now time.Time) []events.Event

func (s *service) Verify(ctx context.Context, adminID, id uuid.UUID, notes string) (*Outcome, error) {
	target := enums.ItemStatusVerified
	return s.adminMutation(ctx, adminID, id, enums.AdminOperationVerify, &target, notes, func(item *models.Item, admin *models.User, now time.Time) []events.Event {
		item.AdminVerified = true
		item.VerifiedByID = &admin.ID
		item.VerifiedAt = &now
		return []events.Event{events.ItemVerified{Item: *item, Verifier: *admin}}
	})
}

func (s *service) DropOff(ctx context.Context, adminID, id uuid.UUID, notes string) (*Outcome, error) {
	target := enums.ItemStatusDroppedOff
	return s.adminMutation(ctx, adminID, id, enums.AdminOperationDropOff, &target, notes, func(item *models.Item, _ *models.User, now time.Time) []events.Event {
		item.DroppedAtAdmin = true
		item.DroppedAt = &now
		return []events.Event{events.ItemDroppedOff{Item: *item}}
	})
}

func (s *service) ProcessClaim(ctx context.Context, adminID, id uuid.UUID, input ClaimInput) (*Outcome, error) {
	claimer := strings.TrimSpace(input.ClaimerName)
	if claimer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "claimer name is required")
	}
	target := enums.ItemStatusClaimed
	return s.adminMutation(ctx, adminID, id, enums.AdminOperationClaim, &target, input.Notes, func(item *models.Item, _ *models.User, now time.Time) []events.Event {
		item.ClaimedFromAdmin = true
		item.ClaimedFromAdminAt = &now
		item.ClaimerName = claimer
		item.ClaimerIDVerified = input.IDVerified
		item.ClaimedAt = &now
		return nil
	})
}

func (s *service) UpdateStatus(ctx context.Context, adminID, id uuid.UUID, status enums.ItemStatus, notes string) (*Outcome, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid item status %q", status)
	}
	return s.adminMutation(ctx, adminID, id, enums.AdminOperationUpdateStatus, &status, notes, func(item *models.Item, _ *models.User, now time.Time) []events.Event {
		switch status {
		case enums.ItemStatusReadyForClaim:
			return []events.Event{events.ItemReadyForClaim{Item: *item}}
		case enums.ItemStatusClaimed:
			item.ClaimedAt = &now
			if item.ClaimedFromAdmin {
				return nil
			}
			name := item.ClaimerName
			if name == "" {
				name = unknownClaimer
			}
			return []events.Event{events.ItemClaimed{Item: *item, ClaimerName: name}}
		default:
			return nil
		}
	})
}

func (s *service) AddNote(ctx context.Context, adminID, id uuid.UUID, note string) (*Outcome, error) {
	if strings.TrimSpace(note) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note is required")
	}
	return s.adminMutation(ctx, adminID, id, enums.AdminOperationAddNote, nil, note, nil)
}

func (s *service) Operations(ctx context.Context, id uuid.UUID) ([]OperationDTO, error) {
	if _, err := s.load(ctx, s.repo, id); err != nil {
		return nil, err
	}
	ops, err := s.repo.ListOperations(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin operations")
	}
	out := make([]OperationDTO, 0, len(ops))
	for _, op := range ops {
		out = append(out, toOperationDTO(op))
	}
	return out, nil
}

// adminMutation writes the item and its audit row in one transaction. A target
// equal to the current effective status is a no-op; a nil target keeps the status.
func (s *service) adminMutation(ctx context.Context, adminID, id uuid.UUID, kind enums.AdminOperationKind, target *enums.ItemStatus, notes string, change adminChange) (*Outcome, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"item_id": id.String(), "admin_operation": string(kind)})

	var (
		updated *models.Item
		emitted []events.Event
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		now := s.now()
		previous := s.effective(*item)
		next := previous
		if target != nil {
			if *target == previous {
				updated = item
				return errNoChange
			}
			if err := checkTransition(previous, *target); err != nil {
				return err
			}
			next = *target
		}

		item.Status = next
		var raised []events.Event
		if change != nil {
			raised = change(item, admin, now)
		}

		notes = strings.TrimSpace(notes)
		if notes != "" {
			item.AdminNotes = appendNote(item.AdminNotes, now, admin.FullName(), notes)
		}
		if err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save item")
		}

		op := &models.AdminOperation{
			ID:             uuid.New(),
			ItemID:         item.ID,
			Operation:      kind,
			AdminID:        admin.ID,
			Notes:          notes,
			PreviousStatus: previous,
			NewStatus:      next,
		}
		if err := repo.CreateOperation(ctx, op); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record admin operation")
		}

		emitted = raised
		if kind.RequiresAdminAttention() {
			emitted = append(emitted, events.AdminActionRequired{Item: *item, Operation: *op})
		}
		updated = item
		return nil
	})
	if errors.Is(err, errNoChange) {
		return s.outcome(*updated, nil), nil
	}
	if err != nil {
		return nil, asServiceError(err, "apply admin operation")
	}
	s.logg.Info(ctx, "admin operation recorded")
	return s.outcome(*updated, emitted), nil
}

// errNoChange rolls back the transaction when a request would not change anything.
var errNoChange = errors.New("no change")

func (s *service) requireAdmin(ctx context.Context, adminID uuid.UUID) (*models.User, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	admin, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin account")
	}
	if !admin.IsStaff || !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff access required")
	}
	return admin, nil
}

func appendNote(existing string, at time.Time, author, note string) string {
	line := fmt.Sprintf("[%s] %s: %s", at.Format(noteTimeLayout), author, note)
	if strings.TrimSpace(existing) == "" {
		return line
	}
	return existing + "\n" + line
}
