package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/campusfound/lostfound-backend/api/responses"
	"github.com/campusfound/lostfound-backend/api/validators"
	"github.com/campusfound/lostfound-backend/internal/rewards"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

type createVoucherRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description,omitempty"`
	VoucherType string          `json:"voucher_type" validate:"required"`
	CoinCost    int             `json:"coin_cost" validate:"gte=1"`
	Value       decimal.Decimal `json:"value"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

// ListVouchers is public; admins may pass ?all=true to include inactive rows.
func ListVouchers(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("rewards"))
			return
		}
		all, err := validators.ParseQueryBool(r, "all", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListVouchers(r.Context(), !all)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// RedeemVoucher debits the voucher cost from the caller's wallet.
func RedeemVoucher(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("rewards"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		voucherID, err := validators.ParseURLUUID(r, "voucherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		redemption, err := svc.Redeem(r.Context(), userID, voucherID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, redemption)
	}
}

func ListMyRedemptions(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("rewards"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListRedemptions(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCreateVoucher(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("rewards"))
			return
		}
		var body createVoucherRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		voucher, err := svc.CreateVoucher(r.Context(), rewards.CreateVoucherInput{
			Name:        body.Name,
			Description: body.Description,
			VoucherType: enums.VoucherType(body.VoucherType),
			CoinCost:    body.CoinCost,
			Value:       body.Value,
			IsActive:    body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, voucher)
	}
}

// AdminMarkRedemptionUsed is called at the counter when the voucher is consumed.
func AdminMarkRedemptionUsed(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("rewards"))
			return
		}
		redemptionID, err := validators.ParseURLUUID(r, "redemptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		redemption, err := svc.MarkUsed(r.Context(), redemptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, redemption)
	}
}
