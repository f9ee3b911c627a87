package models

// UserChargePoint links a user account to a charge point it may use.
// Hidden suppresses the station in that user's summary views without
// revoking access. At most one row exists per (user, charge point) pair.
type UserChargePoint struct {
	UserAccountID int64  `db:"user_account_id" json:"user_account_id"`
	ChargePointID string `db:"charge_point_id" json:"charge_point_id"`
	Hidden        bool   `db:"hidden" json:"hidden"`
}
