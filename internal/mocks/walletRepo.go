package mocks

import (
	"github.com/giw-app/giw/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error) {
	args := m.Called(wallet, tx)
	return args.String(0), args.Error(1)
}

func (m *MockWalletRepo) GetOne(id string) (*models.Wallet, bool, error) {
	args := m.Called(id)
	wallet, _ := args.Get(0).(*models.Wallet)
	return wallet, args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) GetAllByUserId(userID string) ([]models.Wallet, bool, error) {
	args := m.Called(userID)
	wallets, _ := args.Get(0).([]models.Wallet)
	return wallets, args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) UpdateBalance(id string, balance decimal.Decimal) error {
	args := m.Called(id, balance)
	return args.Error(0)
}

func (m *MockWalletRepo) Link(id, circleWalletID, address string) error {
	args := m.Called(id, circleWalletID, address)
	return args.Error(0)
}

func (m *MockWalletRepo) Credit(walletID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(walletID, amount)
	return args.Bool(0), args.Error(1)
}
