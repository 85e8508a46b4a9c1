package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/giw-app/giw/internal/models"
)

type WalletRepository interface {
	Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.Wallet, bool, error)
	GetAllByUserId(userID string) ([]models.Wallet, bool, error)
	UpdateBalance(id string, balance decimal.Decimal) error
	Link(id, circleWalletID, address string) error
	Credit(walletID string, amount decimal.Decimal) (bool, error)
}

type WalletRepositoryImpl struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) WalletRepository {
	return &WalletRepositoryImpl{db: db}
}

func (repo *WalletRepositoryImpl) Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO wallets (user_id, name, blockchain)
		VALUES ($1, $2, $3)
		RETURNING id`
	if tx != nil {
		err := tx.QueryRowContext(ctx, query,
			wallet.UserID,
			wallet.Name,
			wallet.Blockchain,
		).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query,
			wallet.UserID,
			wallet.Name,
			wallet.Blockchain,
		)

		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *WalletRepositoryImpl) GetOne(id string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `
        SELECT id, user_id, name, address, balance, circle_wallet_id, blockchain, is_linked, created_at
        FROM wallets WHERE id=$1`

	err := repo.db.GetContext(ctx, &wallet, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &wallet, true, nil
}

func (repo *WalletRepositoryImpl) GetAllByUserId(userID string) ([]models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallets []models.Wallet

	query := `
        SELECT id, user_id, name, address, balance, circle_wallet_id, blockchain, is_linked, created_at
        FROM wallets WHERE user_id=$1 ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &wallets, query, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if len(wallets) == 0 {
		return nil, false, nil
	}

	return wallets, true, nil
}

// UpdateBalance overwrites the cached balance with a new value. The balance
// is a cache of the provider's on-chain balance, so the write is
// last-write-wins with no version check.
func (repo *WalletRepositoryImpl) UpdateBalance(id string, balance decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, balance, id)
	return err
}

// Link attaches the provider wallet id and on-chain address once the user
// has completed PIN setup with the provider.
func (repo *WalletRepositoryImpl) Link(id, circleWalletID, address string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE wallets SET circle_wallet_id = $1, address = $2, is_linked = TRUE, updated_at = NOW()
		WHERE id = $3`

	_, err := repo.db.ExecContext(ctx, query, circleWalletID, address, id)
	return err
}

// Credit adds the amount back to the wallet balance. Used when a provider
// transfer is rejected after the balance was optimistically decremented.
// Uses a pessimistic lock to hold the row for the duration of the operation.
func (repo *WalletRepositoryImpl) Credit(walletID string, amount decimal.Decimal) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	var wallet models.Wallet

	query := `
		SELECT id, balance FROM wallets WHERE id=$1 FOR UPDATE`

	err = tx.GetContext(ctx, &wallet, query, walletID)

	if err != nil {
		return false, err
	}

	query = `
		UPDATE wallets SET balance=balance+$1, updated_at = NOW() WHERE id=$2`

	_, err = tx.ExecContext(ctx, query, amount, walletID)

	if err != nil {
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, err
	}

	return true, nil
}
