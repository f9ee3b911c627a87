package models

// ChargeTag is an authorization token (typically an RFID card) used to start
// and stop charging sessions. ParentTagID is a flat grouping label for
// reporting, not a tree. UserAccountID is the nullable back-reference that
// implements the one-tag-per-user relation; a unique index on it is the
// final arbiter against concurrent assignments.
type ChargeTag struct {
	TagID         string  `db:"tag_id" json:"tag_id"`
	TagUID        string  `db:"tag_uid" json:"tag_uid"`
	TagName       *string `db:"tag_name" json:"tag_name,omitempty"`
	ParentTagID   *string `db:"parent_tag_id" json:"parent_tag_id,omitempty"`
	UserAccountID *int64  `db:"user_account_id" json:"user_account_id,omitempty"`
	Blocked       bool    `db:"blocked" json:"blocked"`
}

// DisplayName returns the tag name when present, otherwise the raw tag id.
func (t ChargeTag) DisplayName() string {
	if t.TagName != nil && *t.TagName != "" {
		return *t.TagName
	}
	return t.TagID
}
