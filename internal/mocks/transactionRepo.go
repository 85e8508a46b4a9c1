package mocks

import (
	"github.com/giw-app/giw/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Insert(transaction *models.Transaction, tx *sqlx.Tx) (*models.Transaction, error) {
	args := m.Called(transaction, tx)
	created, _ := args.Get(0).(*models.Transaction)
	return created, args.Error(1)
}

func (m *MockTransactionRepo) GetOne(id string) (*models.Transaction, bool, error) {
	args := m.Called(id)
	transaction, _ := args.Get(0).(*models.Transaction)
	return transaction, args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepo) GetAllByWalletId(walletID string, limit, offset int) ([]models.Transaction, bool, error) {
	args := m.Called(walletID, limit, offset)
	transactions, _ := args.Get(0).([]models.Transaction)
	return transactions, args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepo) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockTransactionRepo) FindByChallengeId(challengeID string) (*models.Transaction, bool, error) {
	args := m.Called(challengeID)
	transaction, _ := args.Get(0).(*models.Transaction)
	return transaction, args.Bool(1), args.Error(2)
}
