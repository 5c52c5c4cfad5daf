package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/api/responses"
	"github.com/campusfound/lostfound-backend/api/validators"
	"github.com/campusfound/lostfound-backend/internal/items"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

type adminNotesRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

type adminClaimRequest struct {
	ClaimerName string `json:"claimer_name" validate:"required,max=100"`
	IDVerified  bool   `json:"id_verified"`
	Notes       string `json:"notes,omitempty" validate:"max=2000"`
}

type adminStatusRequest struct {
	Status string `json:"status" validate:"required,item_status"`
	Notes  string `json:"notes,omitempty" validate:"max=2000"`
}

type adminNoteRequest struct {
	Note string `json:"note" validate:"required,max=2000"`
}

type adminItemAction func(ctx context.Context, adminID, itemID uuid.UUID, r *http.Request) (*items.Outcome, error)

// adminItemHandler resolves the acting admin and item, runs the action and
// hands the committed events to the notifier.
func adminItemHandler(svc items.Service, notifier EventNotifier, logg *logger.Logger, action adminItemAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		adminID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := action(r.Context(), adminID, itemID, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notify(r.Context(), notifier, outcome.Events)
		responses.WriteSuccess(w, outcome.Item)
	}
}

func optionalNotes(r *http.Request) (string, error) {
	var body adminNotesRequest
	if r.ContentLength == 0 {
		return "", nil
	}
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return "", err
	}
	return body.Notes, nil
}

func AdminVerifyItem(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return adminItemHandler(svc, notifier, logg, func(ctx context.Context, adminID, itemID uuid.UUID, r *http.Request) (*items.Outcome, error) {
		notes, err := optionalNotes(r)
		if err != nil {
			return nil, err
		}
		return svc.Verify(ctx, adminID, itemID, notes)
	})
}

func AdminDropOffItem(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return adminItemHandler(svc, notifier, logg, func(ctx context.Context, adminID, itemID uuid.UUID, r *http.Request) (*items.Outcome, error) {
		notes, err := optionalNotes(r)
		if err != nil {
			return nil, err
		}
		return svc.DropOff(ctx, adminID, itemID, notes)
	})
}

// AdminProcessClaim records a hand-over from the admin desk.
func AdminProcessClaim(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return adminItemHandler(svc, notifier, logg, func(ctx context.Context, adminID, itemID uuid.UUID, r *http.Request) (*items.Outcome, error) {
		var body adminClaimRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		return svc.ProcessClaim(ctx, adminID, itemID, items.ClaimInput{
			ClaimerName: body.ClaimerName,
			IDVerified:  body.IDVerified,
			Notes:       body.Notes,
		})
	})
}

func AdminUpdateItemStatus(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return adminItemHandler(svc, notifier, logg, func(ctx context.Context, adminID, itemID uuid.UUID, r *http.Request) (*items.Outcome, error) {
		var body adminStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		return svc.UpdateStatus(ctx, adminID, itemID, enums.ItemStatus(body.Status), body.Notes)
	})
}

func AdminAddItemNote(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return adminItemHandler(svc, notifier, logg, func(ctx context.Context, adminID, itemID uuid.UUID, r *http.Request) (*items.Outcome, error) {
		var body adminNoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		return svc.AddNote(ctx, adminID, itemID, body.Note)
	})
}

// AdminItemOperations lists the audit trail of an item, newest first.
func AdminItemOperations(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		itemID, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ops, err := svc.Operations(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ops)
	}
}
