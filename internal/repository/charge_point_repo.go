package repository

import (
	"context"
	"database/sql"

	"chargegrid/internal/models"
)

// ChargePointRepository reads charge point metadata.
type ChargePointRepository struct {
	db *sql.DB
}

// NewChargePointRepository returns repository instance.
func NewChargePointRepository(db *sql.DB) *ChargePointRepository {
	return &ChargePointRepository{db: db}
}

// List returns all charge points ordered by display name.
func (r *ChargePointRepository) List(ctx context.Context) ([]models.ChargePoint, error) {
	const query = `
		SELECT charge_point_id, name, comment
		FROM charge_points
		ORDER BY COALESCE(name, charge_point_id)
	`
	return r.list(ctx, query, nil)
}

// ListByIDs returns the charge points matching ids, ordered by display name.
func (r *ChargePointRepository) ListByIDs(ctx context.Context, ids []string) ([]models.ChargePoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var args []interface{}
	query := `
		SELECT charge_point_id, name, comment
		FROM charge_points
		WHERE charge_point_id IN (` + placeholderList(&args, ids) + `)
		ORDER BY COALESCE(name, charge_point_id)
	`
	return r.list(ctx, query, args)
}

func (r *ChargePointRepository) list(ctx context.Context, query string, args []interface{}) ([]models.ChargePoint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.ChargePoint
	for rows.Next() {
		var point models.ChargePoint
		if err := rows.Scan(&point.ChargePointID, &point.Name, &point.Comment); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
