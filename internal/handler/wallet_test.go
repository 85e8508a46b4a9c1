package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giw-app/giw/internal/circle"
	giwcontext "github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/mocks"
	"github.com/giw-app/giw/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleSyncBalance_UpdatesFromProvider(t *testing.T) {
	walletRepo := new(mocks.MockWalletRepo)
	provider := new(mocks.MockCircleClient)

	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:             "wallet-1",
		UserID:         "user-1",
		IsLinked:       true,
		CircleWalletID: sql.NullString{String: "cw-1", Valid: true},
	}, true, nil)

	provider.On("CreateUserToken", "user-1").Return("token-1", nil)
	provider.On("GetWalletTokenBalances", "token-1", "cw-1").Return([]circle.TokenBalance{
		{Token: circle.Token{Symbol: "ETH"}, Amount: "0.5"},
		{Token: circle.Token{Symbol: "USDC"}, Amount: "812.250000"},
	}, nil)

	walletRepo.On("UpdateBalance", "wallet-1", mock.MatchedBy(func(balance decimal.Decimal) bool {
		return balance.Equal(decimal.RequireFromString("812.25"))
	})).Return(nil)

	h := NewWalletHandler(&WalletHandler{
		WalletRepo: walletRepo,
		UserRepo:   new(mocks.MockUserRepo),
		Circle:     provider,
		ErrHandler: newTestErrHandler(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/wallets/wallet-1/sync-balance", nil)
	req.SetPathValue("id", "wallet-1")
	req = giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	h.HandleSyncBalance(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	walletRepo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestHandleSyncBalance_UnlinkedWallet(t *testing.T) {
	walletRepo := new(mocks.MockWalletRepo)
	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:     "wallet-1",
		UserID: "user-1",
	}, true, nil)

	h := NewWalletHandler(&WalletHandler{
		WalletRepo: walletRepo,
		UserRepo:   new(mocks.MockUserRepo),
		Circle:     new(mocks.MockCircleClient),
		ErrHandler: newTestErrHandler(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/wallets/wallet-1/sync-balance", nil)
	req.SetPathValue("id", "wallet-1")
	req = giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	h.HandleSyncBalance(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleLinkWallet_AttachesFirstProviderWallet(t *testing.T) {
	walletRepo := new(mocks.MockWalletRepo)
	provider := new(mocks.MockCircleClient)

	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:     "wallet-1",
		UserID: "user-1",
	}, true, nil)

	provider.On("CreateUserToken", "user-1").Return("token-1", nil)
	provider.On("ListWallets", "token-1").Return([]circle.Wallet{
		{ID: "cw-1", Address: "0x2222222222222222222222222222222222222222"},
	}, nil)

	walletRepo.On("Link", "wallet-1", "cw-1", "0x2222222222222222222222222222222222222222").Return(nil)

	h := NewWalletHandler(&WalletHandler{
		WalletRepo: walletRepo,
		UserRepo:   new(mocks.MockUserRepo),
		Circle:     provider,
		ErrHandler: newTestErrHandler(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/wallets/wallet-1/link", nil)
	req.SetPathValue("id", "wallet-1")
	req = giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	h.HandleLinkWallet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	walletRepo.AssertExpectations(t)
}
