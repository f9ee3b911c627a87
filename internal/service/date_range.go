package service

import (
	"context"
	"time"

	"chargegrid/internal/scope"
)

// DateRange is an inclusive span of calendar days. Start == Stop is a valid
// single-day span.
type DateRange struct {
	Start time.Time `json:"start_date"`
	Stop  time.Time `json:"stop_date"`
}

// StopExclusive returns the first instant after the range, for half-open
// window queries.
func (r DateRange) StopExclusive() time.Time {
	return r.Stop.AddDate(0, 0, 1)
}

// BoundsSource yields the transaction history bounds visible to a filter.
type BoundsSource interface {
	Bounds(ctx context.Context, f scope.TransactionFilter) (*time.Time, *time.Time, error)
}

// DateRangeResolver turns optional explicit dates into a concrete day range.
// Restricted callers without explicit dates get a window spanning their own
// history, so the default view is never empty for them; admins fall back to
// the previous full calendar month, since "all transactions" has no natural
// bound.
type DateRangeResolver struct {
	bounds BoundsSource
	now    func() time.Time
}

// NewDateRangeResolver builds a resolver. now is injectable for tests and
// defaults to time.Now.
func NewDateRangeResolver(bounds BoundsSource, now func() time.Time) *DateRangeResolver {
	if now == nil {
		now = time.Now
	}
	return &DateRangeResolver{bounds: bounds, now: now}
}

// Resolve computes the effective inclusive day range.
func (r *DateRangeResolver) Resolve(ctx context.Context, start, stop *time.Time, sc scope.Scope) (DateRange, error) {
	if start == nil || stop == nil {
		if !sc.IsAdmin && len(sc.TagIDs) > 0 {
			minStart, maxStop, err := r.bounds.Bounds(ctx, scope.NewTransactionFilter(sc))
			if err != nil {
				return DateRange{}, err
			}
			if minStart != nil && maxStop != nil {
				s := day(*minStart)
				e := day(*maxStop)
				start, stop = &s, &e
			}
		}
	}

	if start == nil || stop == nil {
		firstOfMonth := firstOfCurrentMonth(r.now())
		if start == nil {
			s := firstOfMonth.AddDate(0, -1, 0)
			start = &s
		}
		if stop == nil {
			e := firstOfMonth.AddDate(0, 0, -1)
			stop = &e
		}
	}

	return DateRange{Start: day(*start), Stop: day(*stop)}, nil
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfCurrentMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
