package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/api/responses"
	"github.com/campusfound/lostfound-backend/api/validators"
	"github.com/campusfound/lostfound-backend/internal/ledger"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

type walletResponse struct {
	Balance     int       `json:"balance"`
	TotalEarned int       `json:"total_earned"`
	TotalSpent  int       `json:"total_spent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type transactionResponse struct {
	ID        uuid.UUID                 `json:"id"`
	Type      enums.CoinTransactionType `json:"type"`
	Amount    int                       `json:"amount"`
	Reason    string                    `json:"reason"`
	CreatedAt time.Time                 `json:"created_at"`
}

type transactionPage struct {
	Items  []transactionResponse `json:"items"`
	Cursor string                `json:"cursor"`
}

func toTransactionResponse(tx models.CoinTransaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Type:      tx.Type,
		Amount:    tx.Amount,
		Reason:    tx.Reason,
		CreatedAt: tx.CreatedAt,
	}
}

// GetWallet returns the caller's coin balance and lifetime totals.
func GetWallet(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("ledger"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		account, err := svc.Balance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, walletResponse{
			Balance:     account.Balance,
			TotalEarned: account.TotalEarned,
			TotalSpent:  account.TotalSpent,
			UpdatedAt:   account.UpdatedAt,
		})
	}
}

func ListWalletTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("ledger"))
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
		list, err := svc.Transactions(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := transactionPage{Items: make([]transactionResponse, 0, len(list.Items)), Cursor: list.Cursor}
		for _, tx := range list.Items {
			page.Items = append(page.Items, toTransactionResponse(tx))
		}
		responses.WriteSuccess(w, page)
	}
}
