package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Automation is a standing instruction to move funds: a recurring transfer,
// a one-time scheduled transfer, or a savings contribution.
type Automation struct {
	ID       string          `db:"id"`
	UserID   string          `db:"user_id"`
	WalletID string          `db:"wallet_id"`
	Type     string          `db:"type"`
	Name     string          `db:"name"`
	Amount   decimal.Decimal `db:"amount"`

	// Recipient is required for recurring and scheduled transfers and absent
	// for savings contributions.
	Recipient sql.NullString `db:"recipient"`

	// Frequency is absent for one-time scheduled transfers.
	Frequency sql.NullString `db:"frequency"`

	// NextRunDate is the instant the automation becomes eligible to run.
	// An automation without one is never due.
	NextRunDate sql.NullTime `db:"next_run_date"`

	Status    string       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}
