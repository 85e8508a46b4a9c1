package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	giwcontext "github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/mocks"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransferRequest(t *testing.T, payload map[string]any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	return giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1"})
}

func TestHandleTransfer_RecordsPendingAndDecrementsBalance(t *testing.T) {
	walletRepo := new(mocks.MockWalletRepo)
	transactionRepo := new(mocks.MockTransactionRepo)
	provider := new(mocks.MockCircleClient)

	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:             "wallet-1",
		UserID:         "user-1",
		Balance:        decimal.RequireFromString("300"),
		IsLinked:       true,
		CircleWalletID: sql.NullString{String: "cw-1", Valid: true},
	}, true, nil)

	provider.On("CreateUserToken", "user-1").Return("token-1", nil)
	provider.On("CreateTransfer", "token-1", "cw-1", "0x3333333333333333333333333333333333333333", models.UsdcTokenID, "120.5").
		Return("challenge-1", nil)

	transactionRepo.On("Insert", mock.MatchedBy(func(transaction *models.Transaction) bool {
		return transaction.WalletID == "wallet-1" &&
			transaction.Type == repository.TransactionTypeSent &&
			transaction.Status == repository.TransactionStatusPending &&
			transaction.ChallengeID.String == "challenge-1" &&
			transaction.Amount.Equal(decimal.RequireFromString("120.5"))
	}), mock.Anything).Return(&models.Transaction{ID: "txn-1"}, nil)

	walletRepo.On("UpdateBalance", "wallet-1", mock.MatchedBy(func(balance decimal.Decimal) bool {
		return balance.Equal(decimal.RequireFromString("179.5"))
	})).Return(nil)

	h := NewTransactionHandler(&TransactionHandler{
		TransactionRepo: transactionRepo,
		WalletRepo:      walletRepo,
		Circle:          provider,
		ErrHandler:      newTestErrHandler(t),
	})

	req := newTransferRequest(t, map[string]any{
		"wallet_id": "wallet-1",
		"recipient": "0x3333333333333333333333333333333333333333",
		"amount":    "120.5",
	})
	rec := httptest.NewRecorder()

	h.HandleTransfer(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	walletRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestHandleTransfer_InsufficientBalance(t *testing.T) {
	walletRepo := new(mocks.MockWalletRepo)
	provider := new(mocks.MockCircleClient)

	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:             "wallet-1",
		UserID:         "user-1",
		Balance:        decimal.RequireFromString("10"),
		IsLinked:       true,
		CircleWalletID: sql.NullString{String: "cw-1", Valid: true},
	}, true, nil)

	h := NewTransactionHandler(&TransactionHandler{
		TransactionRepo: new(mocks.MockTransactionRepo),
		WalletRepo:      walletRepo,
		Circle:          provider,
		ErrHandler:      newTestErrHandler(t),
	})

	req := newTransferRequest(t, map[string]any{
		"wallet_id": "wallet-1",
		"recipient": "0x3333333333333333333333333333333333333333",
		"amount":    "120.5",
	})
	rec := httptest.NewRecorder()

	h.HandleTransfer(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	provider.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	walletRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything)
}
