package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/giw-app/giw/internal/models"
)

// supported card networks
const (
	CardTypeVisa       = "visa"
	CardTypeMastercard = "mastercard"
	CardTypeAmex       = "amex"
)

type PaymentCardRepository interface {
	Insert(card *models.PaymentCard) (*models.PaymentCard, error)
	GetOne(id string) (*models.PaymentCard, bool, error)
	GetAllByUserId(userID string) ([]models.PaymentCard, bool, error)
	SetDefault(userID, cardID string) error
	Delete(id string) error
}

type PaymentCardRepositoryImpl struct {
	db *sqlx.DB
}

func NewPaymentCardRepository(db *sqlx.DB) PaymentCardRepository {
	return &PaymentCardRepositoryImpl{db: db}
}

func (repo *PaymentCardRepositoryImpl) Insert(card *models.PaymentCard) (*models.PaymentCard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.PaymentCard

	query := `
		INSERT INTO payment_cards (user_id, type, last4, expiry, cardholder_name, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, type, last4, expiry, cardholder_name, is_default, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		card.UserID,
		card.Type,
		card.Last4,
		card.Expiry,
		card.CardholderName,
		card.IsDefault,
	)

	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *PaymentCardRepositoryImpl) GetOne(id string) (*models.PaymentCard, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var card models.PaymentCard

	query := `
        SELECT id, user_id, type, last4, expiry, cardholder_name, is_default, created_at
        FROM payment_cards WHERE id=$1`

	err := repo.db.GetContext(ctx, &card, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &card, true, nil
}

func (repo *PaymentCardRepositoryImpl) GetAllByUserId(userID string) ([]models.PaymentCard, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var cards []models.PaymentCard

	query := `
        SELECT id, user_id, type, last4, expiry, cardholder_name, is_default, created_at
        FROM payment_cards WHERE user_id=$1
        ORDER BY is_default DESC, created_at DESC`

	err := repo.db.SelectContext(ctx, &cards, query, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if len(cards) == 0 {
		return nil, false, nil
	}

	return cards, true, nil
}

// SetDefault clears any existing default before marking the given card.
// Both writes happen in one transaction so there is never more than one
// default card per user.
func (repo *PaymentCardRepositoryImpl) SetDefault(userID, cardID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	query := `UPDATE payment_cards SET is_default = FALSE WHERE user_id = $1`
	_, err = tx.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}

	query = `UPDATE payment_cards SET is_default = TRUE WHERE id = $1 AND user_id = $2`
	_, err = tx.ExecContext(ctx, query, cardID, userID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (repo *PaymentCardRepositoryImpl) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `DELETE FROM payment_cards WHERE id = $1`

	_, err := repo.db.ExecContext(ctx, query, id)
	return err
}
