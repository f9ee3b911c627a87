package models

import "time"

// UserAccount is an operator or customer account. PublicID is the opaque
// identifier handed to external systems instead of the internal id.
type UserAccount struct {
	ID           int64     `db:"user_id" json:"user_id"`
	LoginName    string    `db:"login_name" json:"login_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	PublicID     string    `db:"public_id" json:"public_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// TagID is the id of the charge tag owned by this account, when one is
	// assigned. Populated by list queries via a left join.
	TagID *string `db:"tag_id" json:"tag_id,omitempty"`
}
