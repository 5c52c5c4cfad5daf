package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

var (
	// ErrVoucherInactive is returned when redeeming a disabled voucher.
	ErrVoucherInactive = errors.New("voucher is not active")
	// ErrAlreadyUsed is returned when a redemption has already been used.
	ErrAlreadyUsed = errors.New("redemption already used")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Debiter takes coins inside the caller's transaction.
type Debiter interface {
	DebitTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error)
}

// Service exchanges coins for vouchers.
type Service interface {
	ListVouchers(ctx context.Context, activeOnly bool) ([]VoucherDTO, error)
	CreateVoucher(ctx context.Context, input CreateVoucherInput) (*VoucherDTO, error)
	Redeem(ctx context.Context, userID, voucherID uuid.UUID) (*RedemptionDTO, error)
	MarkUsed(ctx context.Context, redemptionID uuid.UUID) (*RedemptionDTO, error)
	ListRedemptions(ctx context.Context, userID uuid.UUID) ([]RedemptionDTO, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	ledger Debiter
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the voucher exchange.
func NewService(repo Repository, tx txRunner, ledger Debiter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rewards repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, ledger: ledger, logg: logg, now: time.Now}, nil
}

func (s *service) ListVouchers(ctx context.Context, activeOnly bool) ([]VoucherDTO, error) {
	rows, err := s.repo.ListVouchers(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vouchers")
	}
	out := make([]VoucherDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toVoucherDTO(row))
	}
	return out, nil
}

func (s *service) CreateVoucher(ctx context.Context, input CreateVoucherInput) (*VoucherDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher name is required")
	}
	if !input.VoucherType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid voucher type %q", input.VoucherType)
	}
	if input.CoinCost <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coin cost must be positive")
	}
	if input.Value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher value cannot be negative")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	voucher := &models.Voucher{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		VoucherType: input.VoucherType,
		CoinCost:    input.CoinCost,
		Value:       input.Value.Round(2),
		IsActive:    active,
	}
	if err := s.repo.CreateVoucher(ctx, voucher); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create voucher")
	}
	dto := toVoucherDTO(*voucher)
	return &dto, nil
}

// Redeem debits the voucher cost and records the redemption in one
// transaction. A failed debit leaves no redemption behind.
func (s *service) Redeem(ctx context.Context, userID, voucherID uuid.UUID) (*RedemptionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if voucherID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher id is required")
	}

	voucher, err := s.repo.FindVoucher(ctx, voucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}
	if !voucher.IsActive {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrVoucherInactive, ErrVoucherInactive.Error())
	}

	var redemption *models.VoucherRedemption
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.ledger.DebitTx(ctx, tx, userID, voucher.CoinCost, fmt.Sprintf("redeem %s", voucher.Name)); err != nil {
			return err
		}
		redemption = &models.VoucherRedemption{
			ID:        uuid.New(),
			UserID:    userID,
			VoucherID: voucher.ID,
		}
		return s.repo.WithTx(tx).CreateRedemption(ctx, redemption)
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem voucher")
	}

	redemption.Voucher = voucher
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":       userID.String(),
		"voucher_id":    voucher.ID.String(),
		"redemption_id": redemption.ID.String(),
	}), "voucher redeemed")
	dto := toRedemptionDTO(*redemption)
	return &dto, nil
}

// MarkUsed marks a redemption used exactly once; used_at is never rewritten.
func (s *service) MarkUsed(ctx context.Context, redemptionID uuid.UUID) (*RedemptionDTO, error) {
	if redemptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redemption id is required")
	}
	updated, err := s.repo.MarkUsed(ctx, redemptionID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark redemption used")
	}
	redemption, err := s.repo.FindRedemption(ctx, redemptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "redemption not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load redemption")
	}
	if !updated {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrAlreadyUsed, ErrAlreadyUsed.Error())
	}
	dto := toRedemptionDTO(*redemption)
	return &dto, nil
}

func (s *service) ListRedemptions(ctx context.Context, userID uuid.UUID) ([]RedemptionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListRedemptions(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list redemptions")
	}
	out := make([]RedemptionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRedemptionDTO(row))
	}
	return out, nil
}
