package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chargegrid/internal/models"
)

func strPtr(s string) *string { return &s }

func tx(pointID string, startTag, stopTag *string) models.Transaction {
	return models.Transaction{
		ChargePointID: pointID,
		StartTagID:    startTag,
		StopTagID:     stopTag,
	}
}

func TestTransactionFilterFailsClosedForEmptyTagSet(t *testing.T) {
	f := NewTransactionFilter(Scope{IsAdmin: false})

	require.True(t, f.MatchesNothing())
	require.False(t, f.Match(tx("CP001", strPtr("TAG-A"), nil)))
	require.False(t, f.Match(tx("CP001", nil, nil)))
}

func TestTransactionFilterAdminWithoutTagsSeesEverything(t *testing.T) {
	f := NewTransactionFilter(Scope{IsAdmin: true})

	require.False(t, f.MatchesNothing())
	require.True(t, f.Match(tx("CP001", strPtr("TAG-A"), nil)))
	require.True(t, f.Match(tx("CP002", nil, nil)))
}

func TestTransactionFilterAdminWithTagsIsRestricted(t *testing.T) {
	f := NewTransactionFilter(Scope{IsAdmin: true, TagIDs: []string{"TAG-A"}})

	require.True(t, f.Match(tx("CP001", strPtr("TAG-A"), nil)))
	require.False(t, f.Match(tx("CP001", strPtr("TAG-B"), nil)))
}

func TestTransactionFilterMatchesStopTag(t *testing.T) {
	f := NewTransactionFilter(Scope{TagIDs: []string{"TAG-A"}})

	require.True(t, f.Match(tx("CP001", strPtr("TAG-B"), strPtr("TAG-A"))))
	require.False(t, f.Match(tx("CP001", strPtr("TAG-B"), strPtr("TAG-C"))))
}

func TestTransactionFilterPointRestrictionForNonAdmins(t *testing.T) {
	sc := Scope{TagIDs: []string{"TAG-A"}, PointIDs: []string{"CP001"}}
	f := NewTransactionFilter(sc)

	require.True(t, f.Match(tx("CP001", strPtr("TAG-A"), nil)))
	require.False(t, f.Match(tx("CP002", strPtr("TAG-A"), nil)))

	// The point restriction never applies to admins.
	adminFilter := NewTransactionFilter(Scope{IsAdmin: true, TagIDs: []string{"TAG-A"}, PointIDs: []string{"CP001"}})
	require.True(t, adminFilter.Match(tx("CP002", strPtr("TAG-A"), nil)))
}
