package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargegrid/internal/models"
)

// ErrChargeTagNotFound represents missing charge tag rows.
var ErrChargeTagNotFound = errors.New("charge tag not found")

// ErrChargeTagTaken indicates the tag is owned by another user. It also
// covers the tag disappearing between check and write, which surfaces the
// same way to the caller.
var ErrChargeTagTaken = errors.New("charge tag already assigned")

// ErrOwnerHasTag indicates the user already owns a tag; raised when the
// unique index on the owner column trips at commit.
var ErrOwnerHasTag = errors.New("user already owns a charge tag")

const chargeTagColumns = `tag_id, tag_uid, tag_name, parent_tag_id, user_account_id, blocked`

// ChargeTagRepository handles the charge_tags table.
type ChargeTagRepository struct {
	db *sql.DB
}

// NewChargeTagRepository returns repository instance.
func NewChargeTagRepository(db *sql.DB) *ChargeTagRepository {
	return &ChargeTagRepository{db: db}
}

// GetByID fetches a single tag.
func (r *ChargeTagRepository) GetByID(ctx context.Context, tagID string) (*models.ChargeTag, error) {
	const query = `
		SELECT ` + chargeTagColumns + `
		FROM charge_tags
		WHERE tag_id = $1
	`
	var tag models.ChargeTag
	err := r.db.QueryRowContext(ctx, query, tagID).Scan(
		&tag.TagID,
		&tag.TagUID,
		&tag.TagName,
		&tag.ParentTagID,
		&tag.UserAccountID,
		&tag.Blocked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChargeTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// List returns all tags ordered by display name.
func (r *ChargeTagRepository) List(ctx context.Context) ([]models.ChargeTag, error) {
	const query = `
		SELECT ` + chargeTagColumns + `
		FROM charge_tags
		ORDER BY COALESCE(tag_name, tag_id)
	`
	return r.list(ctx, query)
}

// ListOwnedBy returns the tags owned by a user, ordered by display name.
// The unique owner index keeps this at most one row, but the query does not
// rely on that.
func (r *ChargeTagRepository) ListOwnedBy(ctx context.Context, userID int64) ([]models.ChargeTag, error) {
	const query = `
		SELECT ` + chargeTagColumns + `
		FROM charge_tags
		WHERE user_account_id = $1
		ORDER BY COALESCE(tag_name, tag_id)
	`
	return r.list(ctx, query, userID)
}

func (r *ChargeTagRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ChargeTag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.ChargeTag
	for rows.Next() {
		var tag models.ChargeTag
		if err := rows.Scan(
			&tag.TagID,
			&tag.TagUID,
			&tag.TagName,
			&tag.ParentTagID,
			&tag.UserAccountID,
			&tag.Blocked,
		); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// ClearOwner releases whatever tag the user currently owns.
func (r *ChargeTagRepository) ClearOwner(ctx context.Context, userID int64) error {
	const query = `
		UPDATE charge_tags
		SET user_account_id = NULL
		WHERE user_account_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// SetOwner assigns the tag to the user. The guard clause only updates a tag
// that is unowned or already owned by the same user, so a concurrent grab of
// the tag shows up as zero affected rows; the unique index on the owner
// column catches the user acquiring a second tag concurrently.
func (r *ChargeTagRepository) SetOwner(ctx context.Context, tagID string, userID int64) error {
	const query = `
		UPDATE charge_tags
		SET user_account_id = $2
		WHERE tag_id = $1
		  AND (user_account_id IS NULL OR user_account_id = $2)
	`
	result, err := r.db.ExecContext(ctx, query, tagID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrOwnerHasTag
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrChargeTagTaken
	}
	return nil
}
