package mocks

import (
	"context"

	"github.com/giw-app/giw/internal/circle"
	"github.com/stretchr/testify/mock"
)

type MockCircleClient struct {
	mock.Mock
}

func (m *MockCircleClient) CreateUserToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockCircleClient) CreateUserPinWithWallets(ctx context.Context, userToken string, blockchains []string) (string, error) {
	args := m.Called(userToken, blockchains)
	return args.String(0), args.Error(1)
}

func (m *MockCircleClient) ListWallets(ctx context.Context, userToken string) ([]circle.Wallet, error) {
	args := m.Called(userToken)
	wallets, _ := args.Get(0).([]circle.Wallet)
	return wallets, args.Error(1)
}

func (m *MockCircleClient) GetWalletTokenBalances(ctx context.Context, userToken, walletID string) ([]circle.TokenBalance, error) {
	args := m.Called(userToken, walletID)
	balances, _ := args.Get(0).([]circle.TokenBalance)
	return balances, args.Error(1)
}

func (m *MockCircleClient) CreateTransfer(ctx context.Context, userToken, walletID, destinationAddress, tokenID, amount string) (string, error) {
	args := m.Called(userToken, walletID, destinationAddress, tokenID, amount)
	return args.String(0), args.Error(1)
}

func (m *MockCircleClient) GetTransaction(ctx context.Context, userToken, transactionID string) (*circle.Transaction, error) {
	args := m.Called(userToken, transactionID)
	transaction, _ := args.Get(0).(*circle.Transaction)
	return transaction, args.Error(1)
}
