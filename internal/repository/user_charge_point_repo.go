package repository

import (
	"context"
	"database/sql"

	"chargegrid/internal/models"
)

// UserChargePointRepository handles the user_charge_points association table.
type UserChargePointRepository struct {
	db *sql.DB
}

// NewUserChargePointRepository returns repository instance.
func NewUserChargePointRepository(db *sql.DB) *UserChargePointRepository {
	return &UserChargePointRepository{db: db}
}

// ListByUser returns the assignment rows of a user.
func (r *UserChargePointRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserChargePoint, error) {
	const query = `
		SELECT user_account_id, charge_point_id, hidden
		FROM user_charge_points
		WHERE user_account_id = $1
		ORDER BY charge_point_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.UserChargePoint
	for rows.Next() {
		var assignment models.UserChargePoint
		if err := rows.Scan(
			&assignment.UserAccountID,
			&assignment.ChargePointID,
			&assignment.Hidden,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Apply executes a precomputed assignment diff for one user in a single
// database transaction: delete rows for dropped stations, insert rows for
// new ones and flip the hidden flag where it changed.
func (r *UserChargePointRepository) Apply(ctx context.Context, userID int64, inserts, updates []models.UserChargePoint, deletes []string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		const deleteQuery = `
			DELETE FROM user_charge_points
			WHERE user_account_id = $1 AND charge_point_id = $2
		`
		for _, pointID := range deletes {
			if _, err := tx.ExecContext(ctx, deleteQuery, userID, pointID); err != nil {
				return err
			}
		}

		const insertQuery = `
			INSERT INTO user_charge_points (user_account_id, charge_point_id, hidden)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_account_id, charge_point_id) DO UPDATE SET
				hidden = EXCLUDED.hidden
		`
		for _, assignment := range inserts {
			if _, err := tx.ExecContext(ctx, insertQuery, userID, assignment.ChargePointID, assignment.Hidden); err != nil {
				return err
			}
		}

		const updateQuery = `
			UPDATE user_charge_points
			SET hidden = $3
			WHERE user_account_id = $1 AND charge_point_id = $2
		`
		for _, assignment := range updates {
			if _, err := tx.ExecContext(ctx, updateQuery, userID, assignment.ChargePointID, assignment.Hidden); err != nil {
				return err
			}
		}
		return nil
	})
}
