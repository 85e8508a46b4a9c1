package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/giw-app/giw/internal/models"
)

// define possible transaction status
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// transaction direction
const (
	TransactionTypeSent     = "sent"
	TransactionTypeReceived = "received"
)

type TransactionRepository interface {
	Insert(transaction *models.Transaction, tx *sqlx.Tx) (*models.Transaction, error)
	GetOne(id string) (*models.Transaction, bool, error)
	GetAllByWalletId(walletID string, limit, offset int) ([]models.Transaction, bool, error)
	UpdateStatus(id string, status string) error
	FindByChallengeId(challengeID string) (*models.Transaction, bool, error)
}

type TransactionRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (repo *TransactionRepositoryImpl) Insert(transaction *models.Transaction, tx *sqlx.Tx) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var trans models.Transaction

	query := `
		INSERT INTO transactions (wallet_id, type, merchant, category, amount, status, challenge_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, wallet_id, type, merchant, category, amount, status, challenge_id, created_at`
	if tx != nil {
		err := tx.GetContext(ctx, &trans, query,
			transaction.WalletID,
			transaction.Type,
			transaction.Merchant,
			transaction.Category,
			transaction.Amount,
			transaction.Status,
			transaction.ChallengeID,
		)
		if err != nil {
			return nil, err
		}
	} else {
		err := repo.db.GetContext(ctx, &trans, query,
			transaction.WalletID,
			transaction.Type,
			transaction.Merchant,
			transaction.Category,
			transaction.Amount,
			transaction.Status,
			transaction.ChallengeID,
		)

		if err != nil {
			return nil, err
		}
	}

	return &trans, nil
}

func (repo *TransactionRepositoryImpl) GetOne(id string) (*models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var trans models.Transaction

	query := `
        SELECT id, wallet_id, type, merchant, category, amount, status, challenge_id, created_at
        FROM transactions WHERE id=$1`

	err := repo.db.GetContext(ctx, &trans, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &trans, true, nil
}

func (repo *TransactionRepositoryImpl) GetAllByWalletId(walletID string, limit, offset int) ([]models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transactions []models.Transaction

	query := `
        SELECT id, wallet_id, type, merchant, category, amount, status, challenge_id, created_at
        FROM transactions WHERE wallet_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	err := repo.db.SelectContext(ctx, &transactions, query, walletID, limit, offset)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if len(transactions) == 0 {
		return nil, false, nil
	}

	return transactions, true, nil
}

func (repo *TransactionRepositoryImpl) UpdateStatus(id string, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
        UPDATE transactions SET status=$1, updated_at = NOW() WHERE id=$2`

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

func (repo *TransactionRepositoryImpl) FindByChallengeId(challengeID string) (*models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var trans models.Transaction

	query := `
        SELECT id, wallet_id, type, merchant, category, amount, status, challenge_id, created_at
        FROM transactions WHERE challenge_id=$1`

	err := repo.db.GetContext(ctx, &trans, query, challengeID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &trans, true, nil
}
