package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"chargegrid/internal/models"
	"chargegrid/internal/scope"
)

// TransactionRepository reads charging transactions. Rows are written by the
// OCPP protocol backend, so this repository is read-only.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository returns repository instance.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// TransactionQuery carries the optional caller-supplied filters of the
// personal transaction list.
type TransactionQuery struct {
	ChargePointID string
	Status        string // "active", "completed" or empty for all
	From          *time.Time
	To            *time.Time // inclusive day; the query uses To+1d exclusive
}

const transactionColumns = `
	t.transaction_id, t.uid, t.charge_point_id, t.connector_id,
	t.start_tag_id, t.start_time, t.meter_start, t.start_result,
	t.stop_tag_id, t.stop_time, t.meter_stop, t.stop_reason`

const extendedColumns = transactionColumns + `,
	st.tag_name, st.parent_tag_id, pt.tag_name, pt.parent_tag_id`

const extendedFrom = `
	FROM transactions t
	LEFT JOIN charge_tags st ON st.tag_id = t.start_tag_id
	LEFT JOIN charge_tags pt ON pt.tag_id = t.stop_tag_id`

// scopeConditions renders the filter into SQL conjunctions. A filter that
// matches nothing is expected to be short-circuited by the caller.
func scopeConditions(f scope.TransactionFilter, conds *[]string, args *[]interface{}) {
	if f.TagRestricted && len(f.TagIDs) > 0 {
		tagList := placeholderList(args, f.TagIDs)
		*conds = append(*conds, fmt.Sprintf("(t.start_tag_id IN (%s) OR t.stop_tag_id IN (%s))", tagList, placeholderList(args, f.TagIDs)))
	}
	if f.PointRestricted {
		*conds = append(*conds, fmt.Sprintf("t.charge_point_id IN (%s)", placeholderList(args, f.PointIDs)))
	}
}

// ListExtended returns the scope-visible transactions of the half-open
// window [start, stopExclusive), left-joined with their start/stop tag
// metadata, ordered by transaction id for deterministic export.
func (r *TransactionRepository) ListExtended(ctx context.Context, f scope.TransactionFilter, start, stopExclusive time.Time) ([]models.TransactionExtended, error) {
	if f.MatchesNothing() {
		return nil, nil
	}

	var args []interface{}
	args = append(args, start, stopExclusive)
	conds := []string{
		"t.start_time >= $1",
		"t.start_time < $2",
		"(t.stop_time IS NULL OR t.stop_time < $2)",
	}
	scopeConditions(f, &conds, &args)

	query := `SELECT` + extendedColumns + extendedFrom + `
	WHERE ` + strings.Join(conds, " AND ") + `
	ORDER BY t.transaction_id`

	return r.listExtended(ctx, query, args)
}

// ListExtendedFiltered returns the scope-visible transactions matching the
// caller-supplied filters, newest first.
func (r *TransactionRepository) ListExtendedFiltered(ctx context.Context, f scope.TransactionFilter, q TransactionQuery) ([]models.TransactionExtended, error) {
	if f.MatchesNothing() {
		return nil, nil
	}

	var args []interface{}
	var conds []string
	scopeConditions(f, &conds, &args)

	if q.ChargePointID != "" {
		args = append(args, q.ChargePointID)
		conds = append(conds, fmt.Sprintf("t.charge_point_id = $%d", len(args)))
	}
	if q.From != nil {
		args = append(args, *q.From)
		conds = append(conds, fmt.Sprintf("t.start_time >= $%d", len(args)))
	}
	if q.To != nil {
		args = append(args, q.To.AddDate(0, 0, 1))
		conds = append(conds, fmt.Sprintf("t.start_time < $%d", len(args)))
	}
	switch strings.ToLower(q.Status) {
	case "active":
		conds = append(conds, "t.stop_time IS NULL")
	case "completed":
		conds = append(conds, "t.stop_time IS NOT NULL")
	}

	query := `SELECT` + extendedColumns + extendedFrom
	if len(conds) > 0 {
		query += `
	WHERE ` + strings.Join(conds, " AND ")
	}
	query += `
	ORDER BY t.transaction_id DESC`

	return r.listExtended(ctx, query, args)
}

func (r *TransactionRepository) listExtended(ctx context.Context, query string, args []interface{}) ([]models.TransactionExtended, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.TransactionExtended
	for rows.Next() {
		var tx models.TransactionExtended
		if err := rows.Scan(
			&tx.ID,
			&tx.UID,
			&tx.ChargePointID,
			&tx.ConnectorID,
			&tx.StartTagID,
			&tx.StartTime,
			&tx.MeterStart,
			&tx.StartResult,
			&tx.StopTagID,
			&tx.StopTime,
			&tx.MeterStop,
			&tx.StopReason,
			&tx.StartTagName,
			&tx.StartTagGroup,
			&tx.StopTagName,
			&tx.StopTagGroup,
		); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// Bounds returns the earliest start time and the latest stop-or-start time
// across the scope-visible transactions. Both are nil when the scope has no
// history.
func (r *TransactionRepository) Bounds(ctx context.Context, f scope.TransactionFilter) (*time.Time, *time.Time, error) {
	if f.MatchesNothing() {
		return nil, nil, nil
	}

	var args []interface{}
	var conds []string
	scopeConditions(f, &conds, &args)

	query := `
	SELECT MIN(t.start_time), MAX(COALESCE(t.stop_time, t.start_time))
	FROM transactions t`
	if len(conds) > 0 {
		query += `
	WHERE ` + strings.Join(conds, " AND ")
	}

	var minStart, maxStop *time.Time
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&minStart, &maxStop); err != nil {
		return nil, nil, err
	}
	return minStart, maxStop, nil
}

// DistinctChargePointIDs returns the ids of the stations appearing in the
// scope-visible transactions.
func (r *TransactionRepository) DistinctChargePointIDs(ctx context.Context, f scope.TransactionFilter) ([]string, error) {
	if f.MatchesNothing() {
		return nil, nil
	}

	var args []interface{}
	var conds []string
	scopeConditions(f, &conds, &args)

	query := `
	SELECT DISTINCT t.charge_point_id
	FROM transactions t`
	if len(conds) > 0 {
		query += `
	WHERE ` + strings.Join(conds, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
