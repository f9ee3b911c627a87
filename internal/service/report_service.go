package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"chargegrid/internal/models"
	"chargegrid/internal/repository"
	"chargegrid/internal/scope"
)

// Report is the two-level grouped charge report: group label, then tag, then
// the tag's transactions. HasAssignedChargeTag distinguishes "caller has no
// charge history to show" from "had history but zero rows in range".
type Report struct {
	StartDate            time.Time     `json:"start_date"`
	StopDate             time.Time     `json:"stop_date"`
	HasAssignedChargeTag bool          `json:"has_assigned_charge_tag"`
	Groups               []GroupReport `json:"groups"`
}

// GroupReport clusters the tags sharing a parent tag label. The empty label
// collects ungrouped tags and sorts before any named group.
type GroupReport struct {
	GroupName string      `json:"group_name"`
	Tags      []TagReport `json:"tags"`
}

// TagReport holds one tag's transactions and the summed energy of its
// completed sessions, rounded to 3 decimals.
type TagReport struct {
	TagName      string                       `json:"tag_name"`
	TotalEnergy  float64                      `json:"total_energy"`
	Transactions []models.TransactionExtended `json:"transactions"`
}

// TransactionListView is the flat, ungrouped counterpart of Report, plus the
// connector statuses visible to the caller.
type TransactionListView struct {
	StartDate         time.Time                    `json:"start_date"`
	StopDate          time.Time                    `json:"stop_date"`
	ConnectorStatuses []models.ConnectorStatus     `json:"connector_statuses"`
	Transactions      []models.TransactionExtended `json:"transactions"`
}

// MyTransactionsView is the personal transaction list with its filter echo
// and the stations appearing in the caller's history.
type MyTransactionsView struct {
	Transactions          []models.TransactionExtended `json:"transactions"`
	ChargePoints          []models.ChargePoint         `json:"charge_points"`
	SelectedChargePointID string                       `json:"selected_charge_point_id,omitempty"`
	SelectedStatus        string                       `json:"selected_status"`
	DateFrom              *time.Time                   `json:"date_from,omitempty"`
	DateTo                *time.Time                   `json:"date_to,omitempty"`
}

// TransactionSource is the read-only transaction storage contract.
type TransactionSource interface {
	ListExtended(ctx context.Context, f scope.TransactionFilter, start, stopExclusive time.Time) ([]models.TransactionExtended, error)
	ListExtendedFiltered(ctx context.Context, f scope.TransactionFilter, q repository.TransactionQuery) ([]models.TransactionExtended, error)
	DistinctChargePointIDs(ctx context.Context, f scope.TransactionFilter) ([]string, error)
}

// ConnectorStatusSource yields connector live state.
type ConnectorStatusSource interface {
	List(ctx context.Context) ([]models.ConnectorStatus, error)
	ListByChargePoints(ctx context.Context, pointIDs []string) ([]models.ConnectorStatus, error)
}

// ChargePointSource yields charge point metadata.
type ChargePointSource interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.ChargePoint, error)
}

// ReportService produces the authorization-scoped reporting views. All
// operations are read-only and repeatable, so exports render byte-identical
// output for identical inputs.
type ReportService struct {
	transactions TransactionSource
	connectors   ConnectorStatusSource
	chargePoints ChargePointSource
	resolver     *DateRangeResolver
	logger       *zap.Logger
}

// NewReportService builds the service.
func NewReportService(
	transactions TransactionSource,
	connectors ConnectorStatusSource,
	chargePoints ChargePointSource,
	resolver *DateRangeResolver,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		transactions: transactions,
		connectors:   connectors,
		chargePoints: chargePoints,
		resolver:     resolver,
		logger:       logger,
	}
}

// GenerateReport builds the grouped charge report for the caller's scope.
// "No data" is not an error: callers without a permitted tag get an empty
// report with HasAssignedChargeTag unset.
func (s *ReportService) GenerateReport(ctx context.Context, start, stop *time.Time, sc scope.Scope) (*Report, error) {
	rng, err := s.resolver.Resolve(ctx, start, stop, sc)
	if err != nil {
		return nil, err
	}

	report := &Report{
		StartDate:            rng.Start,
		StopDate:             rng.Stop,
		HasAssignedChargeTag: sc.HasAssignedTag(),
		Groups:               []GroupReport{},
	}
	if !report.HasAssignedChargeTag {
		return report, nil
	}

	txs, err := s.transactions.ListExtended(ctx, scope.NewTransactionFilter(sc), rng.Start, rng.StopExclusive())
	if err != nil {
		return nil, err
	}

	report.Groups = groupTransactions(txs)
	s.logger.Debug("charge report generated",
		zap.Time("start", rng.Start),
		zap.Time("stop", rng.Stop),
		zap.Int("transactions", len(txs)),
		zap.Int("groups", len(report.Groups)),
	)
	return report, nil
}

// GetTransactions returns the flat transaction list together with the
// connector statuses visible to the caller.
func (s *ReportService) GetTransactions(ctx context.Context, start, stop *time.Time, sc scope.Scope) (*TransactionListView, error) {
	rng, err := s.resolver.Resolve(ctx, start, stop, sc)
	if err != nil {
		return nil, err
	}

	// Admins see every connector; restricted callers are narrowed to their
	// permitted stations when that set is present.
	var statuses []models.ConnectorStatus
	if !sc.IsAdmin && len(sc.PointIDs) > 0 {
		statuses, err = s.connectors.ListByChargePoints(ctx, sc.PointIDs)
	} else {
		statuses, err = s.connectors.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.ListExtended(ctx, scope.NewTransactionFilter(sc), rng.Start, rng.StopExclusive())
	if err != nil {
		return nil, err
	}

	return &TransactionListView{
		StartDate:         rng.Start,
		StopDate:          rng.Stop,
		ConnectorStatuses: statuses,
		Transactions:      txs,
	}, nil
}

// MyTransactions returns the caller's personal transaction list. Only the
// permitted tag set scopes it; an empty set yields an empty view.
func (s *ReportService) MyTransactions(ctx context.Context, sc scope.Scope, q repository.TransactionQuery) (*MyTransactionsView, error) {
	f := scope.TransactionFilter{TagRestricted: true, TagIDs: sc.TagIDs}

	view := &MyTransactionsView{
		SelectedChargePointID: q.ChargePointID,
		SelectedStatus:        normalizeStatus(q.Status),
		DateFrom:              q.From,
		DateTo:                q.To,
	}
	if f.MatchesNothing() {
		return view, nil
	}

	txs, err := s.transactions.ListExtendedFiltered(ctx, f, q)
	if err != nil {
		return nil, err
	}

	pointIDs, err := s.transactions.DistinctChargePointIDs(ctx, f)
	if err != nil {
		return nil, err
	}
	points, err := s.chargePoints.ListByIDs(ctx, pointIDs)
	if err != nil {
		return nil, err
	}

	view.Transactions = txs
	view.ChargePoints = points
	return view, nil
}

func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return "active"
	case "completed":
		return "completed"
	default:
		return "all"
	}
}

// groupTransactions clusters by the start tag's group label, then by tag
// display name, both ascending. Map iteration order never leaks: both levels
// are sorted so identical inputs produce identically ordered output.
func groupTransactions(txs []models.TransactionExtended) []GroupReport {
	byGroup := make(map[string]map[string][]models.TransactionExtended)
	for _, tx := range txs {
		group := tx.GroupLabel()
		tag := tx.StartTagLabel()
		if byGroup[group] == nil {
			byGroup[group] = make(map[string][]models.TransactionExtended)
		}
		byGroup[group][tag] = append(byGroup[group][tag], tx)
	}

	groupNames := make([]string, 0, len(byGroup))
	for name := range byGroup {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	groups := make([]GroupReport, 0, len(groupNames))
	for _, groupName := range groupNames {
		byTag := byGroup[groupName]

		tagNames := make([]string, 0, len(byTag))
		for name := range byTag {
			tagNames = append(tagNames, name)
		}
		sort.Strings(tagNames)

		tags := make([]TagReport, 0, len(tagNames))
		for _, tagName := range tagNames {
			tagTxs := byTag[tagName]
			var energy float64
			for _, tx := range tagTxs {
				energy += tx.Energy()
			}
			tags = append(tags, TagReport{
				TagName:      tagName,
				TotalEnergy:  roundEnergy(energy),
				Transactions: tagTxs,
			})
		}

		groups = append(groups, GroupReport{GroupName: groupName, Tags: tags})
	}
	return groups
}

// roundEnergy rounds to 3 decimals for display.
func roundEnergy(v float64) float64 {
	return math.Round(v*1000) / 1000
}
