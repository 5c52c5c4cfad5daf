package rewards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
)

// Repository persists vouchers and redemptions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateVoucher(ctx context.Context, voucher *models.Voucher) error
	FindVoucher(ctx context.Context, id uuid.UUID) (*models.Voucher, error)
	FindVoucherByName(ctx context.Context, name string) (*models.Voucher, error)
	ListVouchers(ctx context.Context, activeOnly bool) ([]models.Voucher, error)
	CreateRedemption(ctx context.Context, redemption *models.VoucherRedemption) error
	FindRedemption(ctx context.Context, id uuid.UUID) (*models.VoucherRedemption, error)
	ListRedemptions(ctx context.Context, userID uuid.UUID) ([]models.VoucherRedemption, error)
	MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a rewards repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateVoucher(ctx context.Context, voucher *models.Voucher) error {
	if voucher.ID == uuid.Nil {
		voucher.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *repository) FindVoucher(ctx context.Context, id uuid.UUID) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).First(&voucher, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) FindVoucherByName(ctx context.Context, name string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) ListVouchers(ctx context.Context, activeOnly bool) ([]models.Voucher, error) {
	query := r.db.WithContext(ctx).Model(&models.Voucher{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var vouchers []models.Voucher
	err := query.Order("coin_cost ASC, name ASC").Find(&vouchers).Error
	return vouchers, err
}

func (r *repository) CreateRedemption(ctx context.Context, redemption *models.VoucherRedemption) error {
	if redemption.ID == uuid.Nil {
		redemption.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(redemption).Error
}

func (r *repository) FindRedemption(ctx context.Context, id uuid.UUID) (*models.VoucherRedemption, error) {
	var redemption models.VoucherRedemption
	if err := r.db.WithContext(ctx).Preload("Voucher").First(&redemption, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *repository) ListRedemptions(ctx context.Context, userID uuid.UUID) ([]models.VoucherRedemption, error) {
	var redemptions []models.VoucherRedemption
	err := r.db.WithContext(ctx).
		Preload("Voucher").
		Where("user_id = ?", userID).
		Order("redeemed_at DESC, id DESC").
		Find(&redemptions).Error
	return redemptions, err
}

// MarkUsed flips is_used from false to true. It reports false when the row
// was already used or does not exist.
func (r *repository) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VoucherRedemption{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]any{"is_used": true, "used_at": now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
