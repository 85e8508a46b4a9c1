package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID       string          `db:"id"`
	WalletID string          `db:"wallet_id"`
	Type     string          `db:"type"`
	Merchant string          `db:"merchant"`
	Category string          `db:"category"`
	Amount   decimal.Decimal `db:"amount"`
	Status   string          `db:"status"`

	// ChallengeID references the provider challenge that must be PIN-confirmed
	// before the transfer settles on-chain. Only set for provider-mediated
	// transfers.
	ChallengeID sql.NullString `db:"challenge_id"`

	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

// UsdcTokenID identifies the USDC asset on the configured testnet with the
// wallet provider. TODO: fetch this from the provider's token listing
// instead of pinning it.
const UsdcTokenID = "36b1737e-c2ed-5915-a218-8e3bf9a2c8f1"
