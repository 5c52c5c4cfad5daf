package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusfound/lostfound-backend/internal/ledger"
	"github.com/campusfound/lostfound-backend/internal/rewards"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/pagination"
)

type stubRewardsService struct {
	rewards.Service
	redeemFn func(ctx context.Context, userID, voucherID uuid.UUID) (*rewards.RedemptionDTO, error)
	createFn func(ctx context.Context, input rewards.CreateVoucherInput) (*rewards.VoucherDTO, error)
	listFn   func(ctx context.Context, activeOnly bool) ([]rewards.VoucherDTO, error)
}

func (s *stubRewardsService) Redeem(ctx context.Context, userID, voucherID uuid.UUID) (*rewards.RedemptionDTO, error) {
	return s.redeemFn(ctx, userID, voucherID)
}

func (s *stubRewardsService) CreateVoucher(ctx context.Context, input rewards.CreateVoucherInput) (*rewards.VoucherDTO, error) {
	return s.createFn(ctx, input)
}

func (s *stubRewardsService) ListVouchers(ctx context.Context, activeOnly bool) ([]rewards.VoucherDTO, error) {
	return s.listFn(ctx, activeOnly)
}

type stubLedgerService struct {
	ledger.Service
	account *models.CoinLedger
	page    *ledger.TransactionList
}

func (s *stubLedgerService) Balance(ctx context.Context, userID uuid.UUID) (*models.CoinLedger, error) {
	return s.account, nil
}

func (s *stubLedgerService) Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ledger.TransactionList, error) {
	return s.page, nil
}

func TestRedeemVoucherInsufficientBalance(t *testing.T) {
	voucherID := uuid.New()
	svc := &stubRewardsService{
		redeemFn: func(ctx context.Context, userID, vid uuid.UUID) (*rewards.RedemptionDTO, error) {
			if vid != voucherID {
				t.Fatalf("unexpected voucher %s", vid)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInsufficient, ledger.ErrInsufficientBalance, "not enough coins")
		},
	}
	req := newRequest(http.MethodPost, "/", nil, uuid.New(), enums.UserRoleStudent, map[string]string{"voucherId": voucherID.String()})
	resp := httptest.NewRecorder()
	RedeemVoucher(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeInsufficient) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestRedeemVoucherCreated(t *testing.T) {
	voucherID := uuid.New()
	svc := &stubRewardsService{
		redeemFn: func(ctx context.Context, userID, vid uuid.UUID) (*rewards.RedemptionDTO, error) {
			return &rewards.RedemptionDTO{ID: uuid.New(), VoucherID: vid, RedeemedAt: time.Now()}, nil
		},
	}
	req := newRequest(http.MethodPost, "/", nil, uuid.New(), enums.UserRoleStudent, map[string]string{"voucherId": voucherID.String()})
	resp := httptest.NewRecorder()
	RedeemVoucher(svc, testLogger())(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestAdminCreateVoucherParsesDecimal(t *testing.T) {
	svc := &stubRewardsService{
		createFn: func(ctx context.Context, input rewards.CreateVoucherInput) (*rewards.VoucherDTO, error) {
			if !input.Value.Equal(decimal.RequireFromString("5.50")) {
				t.Fatalf("unexpected value %s", input.Value)
			}
			if input.VoucherType != enums.VoucherTypeCanteen || input.CoinCost != 50 {
				t.Fatalf("unexpected input %+v", input)
			}
			return &rewards.VoucherDTO{ID: uuid.New(), Name: input.Name, Value: input.Value, CoinCost: input.CoinCost}, nil
		},
	}
	body := map[string]any{"name": "Canteen Meal", "voucher_type": "canteen", "coin_cost": 50, "value": "5.50"}
	req := newRequest(http.MethodPost, "/", body, uuid.New(), enums.UserRoleAdmin, nil)
	resp := httptest.NewRecorder()
	AdminCreateVoucher(svc, testLogger())(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListVouchersActiveOnlyByDefault(t *testing.T) {
	var got []bool
	svc := &stubRewardsService{
		listFn: func(ctx context.Context, activeOnly bool) ([]rewards.VoucherDTO, error) {
			got = append(got, activeOnly)
			return []rewards.VoucherDTO{}, nil
		},
	}
	for _, target := range []string{"/api/v1/vouchers", "/api/v1/vouchers?all=true"} {
		resp := httptest.NewRecorder()
		ListVouchers(svc, testLogger())(resp, newRequest(http.MethodGet, target, nil, uuid.Nil, "", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, resp.Code)
		}
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("unexpected activeOnly flags %v", got)
	}
}

func TestGetWalletShape(t *testing.T) {
	svc := &stubLedgerService{account: &models.CoinLedger{Balance: 40, TotalEarned: 90, TotalSpent: 50}}
	req := newRequest(http.MethodGet, "/", nil, uuid.New(), enums.UserRoleStudent, nil)
	resp := httptest.NewRecorder()
	GetWallet(svc, testLogger())(resp, req)

	var data walletResponse
	decodeData(t, resp, &data)
	if data.Balance != 40 || data.TotalEarned != 90 || data.TotalSpent != 50 {
		t.Fatalf("unexpected wallet %+v", data)
	}
}

func TestListWalletTransactions(t *testing.T) {
	svc := &stubLedgerService{page: &ledger.TransactionList{
		Items: []models.CoinTransaction{
			{ID: uuid.New(), Type: enums.CoinTransactionEarn, Amount: 15, Reason: "reward"},
		},
		Cursor: "c1",
	}}
	req := newRequest(http.MethodGet, "/?limit=10", nil, uuid.New(), enums.UserRoleStudent, nil)
	resp := httptest.NewRecorder()
	ListWalletTransactions(svc, testLogger())(resp, req)

	var page transactionPage
	decodeData(t, resp, &page)
	if len(page.Items) != 1 || page.Items[0].Amount != 15 || page.Cursor != "c1" {
		t.Fatalf("unexpected page %+v", page)
	}
}
