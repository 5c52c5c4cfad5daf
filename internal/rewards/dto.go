package rewards

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// CreateVoucherInput is the admin payload for a new voucher.
type CreateVoucherInput struct {
	Name        string
	Description string
	VoucherType enums.VoucherType
	CoinCost    int
	Value       decimal.Decimal
	IsActive    *bool
}

// VoucherDTO is the API shape of a voucher.
type VoucherDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	VoucherType enums.VoucherType `json:"voucher_type"`
	CoinCost    int               `json:"coin_cost"`
	Value       decimal.Decimal   `json:"value"`
	IsActive    bool              `json:"is_active"`
}

// RedemptionDTO is the API shape of a redemption.
type RedemptionDTO struct {
	ID         uuid.UUID   `json:"id"`
	Voucher    *VoucherDTO `json:"voucher,omitempty"`
	VoucherID  uuid.UUID   `json:"voucher_id"`
	RedeemedAt time.Time   `json:"redeemed_at"`
	IsUsed     bool        `json:"is_used"`
	UsedAt     *time.Time  `json:"used_at,omitempty"`
}

func toVoucherDTO(v models.Voucher) VoucherDTO {
	return VoucherDTO{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		VoucherType: v.VoucherType,
		CoinCost:    v.CoinCost,
		Value:       v.Value,
		IsActive:    v.IsActive,
	}
}

func toRedemptionDTO(r models.VoucherRedemption) RedemptionDTO {
	dto := RedemptionDTO{
		ID:         r.ID,
		VoucherID:  r.VoucherID,
		RedeemedAt: r.RedeemedAt,
		IsUsed:     r.IsUsed,
		UsedAt:     r.UsedAt,
	}
	if r.Voucher != nil {
		v := toVoucherDTO(*r.Voucher)
		dto.Voucher = &v
	}
	return dto
}
