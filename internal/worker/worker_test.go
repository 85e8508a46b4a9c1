package worker

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/giw-app/giw/internal/handler"
	"github.com/giw-app/giw/internal/mocks"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestWorker(db *mocks.MockDatabase) *Worker {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(&Worker{
		DB:     db,
		Logger: logger,
		Ctx:    context.Background(),
	})
}

func TestCompleteTransfer_MarksPendingCompleted(t *testing.T) {
	transactionRepo := new(mocks.MockTransactionRepo)
	transactionRepo.On("FindByChallengeId", "challenge-1").Return(&models.Transaction{
		ID:     "txn-1",
		Status: repository.TransactionStatusPending,
	}, true, nil)
	transactionRepo.On("UpdateStatus", "txn-1", repository.TransactionStatusCompleted).Return(nil)

	wk := newTestWorker(&mocks.MockDatabase{TransactionRepo: transactionRepo})

	wk.completeTransfer(&handler.TransferEvent{ChallengeID: "challenge-1", State: "COMPLETE"})

	transactionRepo.AssertExpectations(t)
}

func TestCompleteTransfer_IgnoresAlreadySettled(t *testing.T) {
	transactionRepo := new(mocks.MockTransactionRepo)
	transactionRepo.On("FindByChallengeId", "challenge-1").Return(&models.Transaction{
		ID:     "txn-1",
		Status: repository.TransactionStatusCompleted,
	}, true, nil)

	wk := newTestWorker(&mocks.MockDatabase{TransactionRepo: transactionRepo})

	wk.completeTransfer(&handler.TransferEvent{ChallengeID: "challenge-1", State: "COMPLETE"})

	transactionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestUnwindTransfer_CreditsBalanceBack(t *testing.T) {
	transactionRepo := new(mocks.MockTransactionRepo)
	walletRepo := new(mocks.MockWalletRepo)

	amount := decimal.RequireFromString("42.5")

	transactionRepo.On("FindByChallengeId", "challenge-2").Return(&models.Transaction{
		ID:       "txn-2",
		WalletID: "wallet-1",
		Amount:   amount,
		Status:   repository.TransactionStatusPending,
	}, true, nil)
	transactionRepo.On("UpdateStatus", "txn-2", repository.TransactionStatusFailed).Return(nil)
	walletRepo.On("Credit", "wallet-1", amount).Return(true, nil)

	wk := newTestWorker(&mocks.MockDatabase{
		TransactionRepo: transactionRepo,
		WalletRepo:      walletRepo,
	})

	wk.unwindTransfer(&handler.TransferEvent{ChallengeID: "challenge-2", State: "FAILED"})

	transactionRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
}

func TestUnwindTransfer_ReplayedEventDoesNotDoubleCredit(t *testing.T) {
	transactionRepo := new(mocks.MockTransactionRepo)
	walletRepo := new(mocks.MockWalletRepo)

	transactionRepo.On("FindByChallengeId", "challenge-2").Return(&models.Transaction{
		ID:       "txn-2",
		WalletID: "wallet-1",
		Status:   repository.TransactionStatusFailed,
	}, true, nil)

	wk := newTestWorker(&mocks.MockDatabase{
		TransactionRepo: transactionRepo,
		WalletRepo:      walletRepo,
	})

	wk.unwindTransfer(&handler.TransferEvent{ChallengeID: "challenge-2", State: "FAILED"})

	walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
}
