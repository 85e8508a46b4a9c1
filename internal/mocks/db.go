package mocks

import (
	"context"
	"database/sql"

	"github.com/giw-app/giw/internal/repository"
	"github.com/jmoiron/sqlx"
)

// MockDatabase satisfies repository.Database by handing out the mock
// repositories it was built with. BeginTx is a stub; tests that exercise
// transactional flows should run against a real database instead.
type MockDatabase struct {
	UserRepo        *MockUserRepo
	WalletRepo      *MockWalletRepo
	TransactionRepo *MockTransactionRepo
	CardRepo        *MockPaymentCardRepo
	AutomationRepo  *MockAutomationRepo
}

func (m *MockDatabase) User() repository.UserRepository {
	return m.UserRepo
}

func (m *MockDatabase) Wallet() repository.WalletRepository {
	return m.WalletRepo
}

func (m *MockDatabase) Transaction() repository.TransactionRepository {
	return m.TransactionRepo
}

func (m *MockDatabase) PaymentCard() repository.PaymentCardRepository {
	return m.CardRepo
}

func (m *MockDatabase) Automation() repository.AutomationRepository {
	return m.AutomationRepo
}

func (m *MockDatabase) Close() error {
	return nil
}

func (m *MockDatabase) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, nil
}
