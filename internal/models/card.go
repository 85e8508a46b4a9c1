package models

import (
	"time"
)

type PaymentCard struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	Type           string    `db:"type"`
	Last4          string    `db:"last4"`
	Expiry         string    `db:"expiry"`
	CardholderName string    `db:"cardholder_name"`
	IsDefault      bool      `db:"is_default"`
	CreatedAt      time.Time `db:"created_at"`
}
