package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/metrics"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

// ErrInsufficientBalance is returned when a debit exceeds the current balance.
var ErrInsufficientBalance = errors.New("insufficient coin balance")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service moves coins in and out of user ledgers. Every movement updates the
// balance and appends its transaction row atomically.
type Service interface {
	Open(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error)
	OpenTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.CoinLedger, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error)
	DebitTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error)
	Balance(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error)
	Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*TransactionList, error)
}

// TransactionList is a page of the transaction log.
type TransactionList struct {
	Items  []models.CoinTransaction `json:"items"`
	Cursor string                   `json:"cursor"`
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LedgerMetrics
}

// NewService wires a ledger service. A nil metrics recorder is allowed.
func NewService(repo Repository, tx txRunner, recorder *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: recorder}, nil
}

func (s *service) Open(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error) {
	return s.OpenTx(ctx, nil, userID)
}

func (s *service) OpenTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.CoinLedger, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	row, err := s.repo.WithTx(tx).Ensure(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open coin ledger")
	}
	return row, nil
}

func (s *service) Credit(ctx context.Context, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error) {
	if err := validateMovement(userID, amount, reason); err != nil {
		return nil, err
	}

	var txn *models.CoinTransaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Ensure(ctx, userID); err != nil {
			return fmt.Errorf("ensure ledger: %w", err)
		}
		if err := repo.AddEarned(ctx, userID, amount); err != nil {
			return fmt.Errorf("add earned: %w", err)
		}
		txn = newTransaction(userID, enums.CoinTransactionEarn, amount, reason)
		return repo.AppendTransaction(ctx, txn)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit coins")
	}
	s.metrics.AddCoins(string(enums.CoinTransactionEarn), amount)
	return txn, nil
}

func (s *service) Debit(ctx context.Context, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error) {
	var txn *models.CoinTransaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		txn, err = s.DebitTx(ctx, tx, userID, amount, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// DebitTx debits inside the caller's transaction so the caller can commit the
// debit together with its own writes.
func (s *service) DebitTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, reason string) (*models.CoinTransaction, error) {
	if err := validateMovement(userID, amount, reason); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)
	ok, err := repo.SubtractIfCovered(ctx, userID, amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit coins")
	}
	if !ok {
		s.metrics.IncRejected()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInsufficient, ErrInsufficientBalance, ErrInsufficientBalance.Error())
	}

	txn := newTransaction(userID, enums.CoinTransactionSpend, amount, reason)
	if err := repo.AppendTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append spend transaction")
	}
	s.metrics.AddCoins(string(enums.CoinTransactionSpend), amount)
	return txn, nil
}

// Balance returns the user's ledger, creating an empty one on first access.
func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	row, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.Open(ctx, userID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coin ledger")
	}
	return row, nil
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*TransactionList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	query := listTransactionsParams{UserID: userID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListTransactions(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coin transactions")
	}
	result := &TransactionList{Items: rows}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func validateMovement(userID uuid.UUID, amount int, reason string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(reason) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	return nil
}

func newTransaction(userID uuid.UUID, kind enums.CoinTransactionType, amount int, reason string) *models.CoinTransaction {
	return &models.CoinTransaction{
		ID:     uuid.New(),
		UserID: userID,
		Type:   kind,
		Amount: amount,
		Reason: strings.TrimSpace(reason),
	}
}
