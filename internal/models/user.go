package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID              string         `db:"id"`
	Email           string         `db:"email"`
	FirstName       string         `db:"first_name"`
	LastName        string         `db:"last_name"`
	HashedPassword  string         `db:"hashed_password"`
	ProfileImageURL sql.NullString `db:"profile_image_url"`

	// CircleUserID is the identifier the wallet provider knows this user by.
	// It is set the first time the user provisions a wallet.
	CircleUserID sql.NullString `db:"circle_user_id"`

	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}
