package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusfound/lostfound-backend/internal/repo"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

// Repository persists coin ledgers and their transaction log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Ensure(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error)
	AddEarned(ctx context.Context, userID uuid.UUID, amount int) error
	SubtractIfCovered(ctx context.Context, userID uuid.UUID, amount int) (bool, error)
	AppendTransaction(ctx context.Context, txn *models.CoinTransaction) error
	ListTransactions(ctx context.Context, params listTransactionsParams) ([]models.CoinTransaction, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

type listTransactionsParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

// NewRepository binds the ledger repository to a GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Ensure inserts an empty ledger for the user if none exists and returns the row.
func (r *repository) Ensure(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error) {
	row := &models.CoinLedger{ID: uuid.New(), UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error) {
	var row models.CoinLedger
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) AddEarned(ctx context.Context, userID uuid.UUID, amount int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CoinLedger{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"balance":      gorm.Expr("balance + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SubtractIfCovered debits in a single conditional statement; false means the
// balance could not cover the amount and nothing changed.
func (r *repository) SubtractIfCovered(ctx context.Context, userID uuid.UUID, amount int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CoinLedger{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]any{
			"balance":     gorm.Expr("balance - ?", amount),
			"total_spent": gorm.Expr("total_spent + ?", amount),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) AppendTransaction(ctx context.Context, txn *models.CoinTransaction) error {
	if txn == nil {
		return errors.New("transaction is required")
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, params listTransactionsParams) ([]models.CoinTransaction, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.CoinTransaction{}).Where("user_id = ?", params.UserID)
	var rows []models.CoinTransaction
	if err := query.Scopes(repo.NewestFirst(params.Cursor, params.Limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, params.Limit, func(t models.CoinTransaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	})
	return page, next, nil
}
