package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chargegrid/internal/scope"
)

func TestPlaceholderList(t *testing.T) {
	var args []interface{}
	args = append(args, "seed")

	list := placeholderList(&args, []string{"TAG-A", "TAG-B"})
	require.Equal(t, "$2, $3", list)
	require.Equal(t, []interface{}{"seed", "TAG-A", "TAG-B"}, args)
}

func TestScopeConditionsTagRestricted(t *testing.T) {
	var conds []string
	var args []interface{}

	scopeConditions(scope.TransactionFilter{
		TagRestricted: true,
		TagIDs:        []string{"TAG-A", "TAG-B"},
	}, &conds, &args)

	require.Equal(t, []string{"(t.start_tag_id IN ($1, $2) OR t.stop_tag_id IN ($3, $4))"}, conds)
	require.Equal(t, []interface{}{"TAG-A", "TAG-B", "TAG-A", "TAG-B"}, args)
}

func TestScopeConditionsPointRestricted(t *testing.T) {
	var conds []string
	var args []interface{}

	scopeConditions(scope.TransactionFilter{
		PointRestricted: true,
		PointIDs:        []string{"CP001"},
	}, &conds, &args)

	require.Equal(t, []string{"t.charge_point_id IN ($1)"}, conds)
	require.Equal(t, []interface{}{"CP001"}, args)
}

func TestScopeConditionsUnrestricted(t *testing.T) {
	var conds []string
	var args []interface{}

	scopeConditions(scope.TransactionFilter{}, &conds, &args)

	require.Empty(t, conds)
	require.Empty(t, args)
}
