package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBlockchain is the chain new wallets are provisioned on.
const DefaultBlockchain = "MATIC-AMOY"

type Wallet struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Name   string `db:"name"`

	// Address is the on-chain address. Empty until the provider finishes
	// provisioning the wallet.
	Address string `db:"address"`

	// Balance is an application-side cache of the provider's on-chain
	// balance. It is decremented optimistically when a transfer is
	// initiated and refreshed by explicit sync.
	Balance decimal.Decimal `db:"balance"`

	CircleWalletID sql.NullString `db:"circle_wallet_id"`
	Blockchain     string         `db:"blockchain"`

	// IsLinked is false while the user's PIN setup with the provider is
	// still outstanding.
	IsLinked bool `db:"is_linked"`

	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}
