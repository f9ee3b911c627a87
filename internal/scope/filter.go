package scope

import "chargegrid/internal/models"

// TransactionFilter restricts which transactions a caller may see. It is
// derived once from a Scope and consumed both as an in-memory predicate and
// as input to the repository's SQL conditions.
//
// The tag condition applies to every non-admin, and to admins that carry an
// explicit tag set. A restricted caller with an empty tag set matches
// nothing: absent permission data is never read as "show all".
type TransactionFilter struct {
	TagIDs          []string
	PointIDs        []string
	TagRestricted   bool
	PointRestricted bool
}

// NewTransactionFilter derives the filter from a caller scope.
func NewTransactionFilter(sc Scope) TransactionFilter {
	f := TransactionFilter{}
	if !sc.IsAdmin || len(sc.TagIDs) > 0 {
		f.TagRestricted = true
		f.TagIDs = sc.TagIDs
	}
	if !sc.IsAdmin && len(sc.PointIDs) > 0 {
		f.PointRestricted = true
		f.PointIDs = sc.PointIDs
	}
	return f
}

// MatchesNothing reports whether no transaction can pass the filter.
func (f TransactionFilter) MatchesNothing() bool {
	return f.TagRestricted && len(f.TagIDs) == 0
}

// Match evaluates the filter against a single transaction.
func (f TransactionFilter) Match(t models.Transaction) bool {
	if f.TagRestricted {
		if !f.matchTag(t.StartTagID) && !f.matchTag(t.StopTagID) {
			return false
		}
	}
	if f.PointRestricted {
		found := false
		for _, id := range f.PointIDs {
			if id == t.ChargePointID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f TransactionFilter) matchTag(tagID *string) bool {
	if tagID == nil {
		return false
	}
	for _, id := range f.TagIDs {
		if id == *tagID {
			return true
		}
	}
	return false
}
