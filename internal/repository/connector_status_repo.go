package repository

import (
	"context"
	"database/sql"

	"chargegrid/internal/models"
)

// ConnectorStatusRepository reads the per-connector live state written by
// the OCPP protocol backend.
type ConnectorStatusRepository struct {
	db *sql.DB
}

// NewConnectorStatusRepository returns repository instance.
func NewConnectorStatusRepository(db *sql.DB) *ConnectorStatusRepository {
	return &ConnectorStatusRepository{db: db}
}

const connectorStatusQuery = `
	SELECT cs.charge_point_id, cs.connector_id, cs.connector_name,
	       cs.last_status, cs.last_status_time, cs.last_meter, cs.last_meter_time,
	       cp.name
	FROM connector_status cs
	LEFT JOIN charge_points cp ON cp.charge_point_id = cs.charge_point_id
`

// List returns all connector statuses ordered by station and connector.
func (r *ConnectorStatusRepository) List(ctx context.Context) ([]models.ConnectorStatus, error) {
	query := connectorStatusQuery + ` ORDER BY cs.charge_point_id, cs.connector_id`
	return r.list(ctx, query, nil)
}

// ListByChargePoints returns the statuses of the given stations only.
func (r *ConnectorStatusRepository) ListByChargePoints(ctx context.Context, pointIDs []string) ([]models.ConnectorStatus, error) {
	if len(pointIDs) == 0 {
		return nil, nil
	}
	var args []interface{}
	query := connectorStatusQuery + `
	WHERE cs.charge_point_id IN (` + placeholderList(&args, pointIDs) + `)
	ORDER BY cs.charge_point_id, cs.connector_id`
	return r.list(ctx, query, args)
}

func (r *ConnectorStatusRepository) list(ctx context.Context, query string, args []interface{}) ([]models.ConnectorStatus, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.ConnectorStatus
	for rows.Next() {
		var status models.ConnectorStatus
		if err := rows.Scan(
			&status.ChargePointID,
			&status.ConnectorID,
			&status.ConnectorName,
			&status.LastStatus,
			&status.LastStatusTime,
			&status.LastMeter,
			&status.LastMeterTime,
			&status.ChargePointName,
		); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}
