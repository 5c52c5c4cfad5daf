package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/api/responses"
	"github.com/campusfound/lostfound-backend/api/validators"
	"github.com/campusfound/lostfound-backend/internal/items"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

type imageRequest struct {
	URL       string `json:"url" validate:"required,url"`
	Caption   string `json:"caption,omitempty" validate:"max=200"`
	IsPrimary bool   `json:"is_primary"`
}

func (i imageRequest) toInput() items.ImageInput {
	return items.ImageInput{URL: i.URL, Caption: i.Caption, IsPrimary: i.IsPrimary}
}

type createItemRequest struct {
	Title        string         `json:"title" validate:"required,max=200"`
	Description  string         `json:"description" validate:"required"`
	Kind         string         `json:"kind" validate:"required,item_kind"`
	CategoryID   *uuid.UUID     `json:"category_id,omitempty"`
	LocationID   *uuid.UUID     `json:"location_id,omitempty"`
	ContactName  string         `json:"contact_name" validate:"required,max=100"`
	ContactEmail string         `json:"contact_email" validate:"required,email"`
	ContactPhone *string        `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	RewardCoins  int            `json:"reward_coins" validate:"gte=0"`
	IsUrgent     bool           `json:"is_urgent"`
	Images       []imageRequest `json:"images,omitempty" validate:"dive"`
}

type updateItemRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string    `json:"description,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	ContactName  *string    `json:"contact_name,omitempty" validate:"omitempty,max=100"`
	ContactEmail *string    `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string    `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	RewardCoins  *int       `json:"reward_coins,omitempty" validate:"omitempty,gte=0"`
	IsUrgent     *bool      `json:"is_urgent,omitempty"`
}

type claimItemRequest struct {
	ClaimerName string `json:"claimer_name,omitempty" validate:"max=100"`
}

// ListItems is the public browse endpoint.
func ListItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := items.ListFilters{
			CategoryID: categoryID,
			Search:     validators.SanitizeString(query.Get("search"), 100),
			Limit:      limit,
			Cursor:     strings.TrimSpace(query.Get("cursor")),
		}
		if raw := strings.TrimSpace(query.Get("kind")); raw != "" {
			kind := enums.ItemKind(strings.ToLower(raw))
			filters.Kind = &kind
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status := enums.ItemStatus(strings.ToLower(raw))
			filters.Status = &status
		}

		result, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ListMyItems returns the caller's own posts including closed ones.
func ListMyItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListByOwner(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CreateItem(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := items.CreateItemInput{
			Title:        body.Title,
			Description:  body.Description,
			Kind:         enums.ItemKind(body.Kind),
			CategoryID:   body.CategoryID,
			LocationID:   body.LocationID,
			ContactName:  body.ContactName,
			ContactEmail: body.ContactEmail,
			ContactPhone: body.ContactPhone,
			RewardCoins:  body.RewardCoins,
			IsUrgent:     body.IsUrgent,
		}
		for _, img := range body.Images {
			input.Images = append(input.Images, img.toInput())
		}

		outcome, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notify(r.Context(), notifier, outcome.Events)
		responses.WriteCreated(w, outcome.Item)
	}
}

func UpdateItem(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.Update(r.Context(), userID, id, items.UpdateItemInput{
			Title:        body.Title,
			Description:  body.Description,
			CategoryID:   body.CategoryID,
			LocationID:   body.LocationID,
			ContactName:  body.ContactName,
			ContactEmail: body.ContactEmail,
			ContactPhone: body.ContactPhone,
			RewardCoins:  body.RewardCoins,
			IsUrgent:     body.IsUrgent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notify(r.Context(), notifier, outcome.Events)
		responses.WriteSuccess(w, outcome.Item)
	}
}

// ClaimItem lets the poster mark their item as returned. A found item with a
// reward credits the poster once the write commits.
func ClaimItem(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body claimItemRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		outcome, err := svc.MarkClaimed(r.Context(), userID, id, body.ClaimerName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notify(r.Context(), notifier, outcome.Events)
		responses.WriteSuccess(w, outcome.Item)
	}
}

func CloseItem(svc items.Service, notifier EventNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.Close(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notify(r.Context(), notifier, outcome.Events)
		responses.WriteSuccess(w, outcome.Item)
	}
}

func DeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AddItemImage(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("items"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body imageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.AddImage(r.Context(), userID, id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, image)
	}
}
