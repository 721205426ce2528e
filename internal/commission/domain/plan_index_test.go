package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestResolve_AssignedPlanWins(t *testing.T) {
	ownerID := int64(9)
	idx := NewPlanIndex(
		[]CommissionPlan{
			{ID: 1, PlanType: PlanTypeReaderPromoter, MaxLevel: 2, StartDate: planDate(2024, time.January, 1)},
			{ID: 2, PlanType: PlanTypeReaderPromoter, MaxLevel: 3, StartDate: planDate(2024, time.January, 1), IsCustom: true, OwnerUserID: &ownerID},
		},
		[]CommissionPlanLevel{
			{PlanID: 1, Level: 1, Percent: decimal.NewFromFloat(0.10)},
			{PlanID: 2, Level: 1, Percent: decimal.NewFromFloat(0.20)},
		},
	)

	assignedID := int64(2)
	resolved, ok := idx.Resolve(TrackReader, &assignedID, planDate(2025, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, PlanSourceAssigned, resolved.Source)
	assert.Equal(t, int64(2), resolved.Plan.ID)
	assert.Equal(t, "0.2", resolved.PercentAt(1).String())
}

func TestResolve_WrongTrackAssignmentFallsBack(t *testing.T) {
	ownerID := int64(9)
	idx := NewPlanIndex(
		[]CommissionPlan{
			{ID: 1, PlanType: PlanTypeReaderPromoter, MaxLevel: 2, StartDate: planDate(2024, time.January, 1)},
			{ID: 2, PlanType: PlanTypeAuthorPromoter, MaxLevel: 3, StartDate: planDate(2024, time.January, 1), IsCustom: true, OwnerUserID: &ownerID},
		},
		nil,
	)

	assignedID := int64(2)
	resolved, ok := idx.Resolve(TrackReader, &assignedID, planDate(2025, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, PlanSourceDefault, resolved.Source)
	assert.Equal(t, int64(1), resolved.Plan.ID)
}

func TestResolve_NewestValidDefault(t *testing.T) {
	idx := NewPlanIndex(
		[]CommissionPlan{
			{ID: 1, PlanType: PlanTypeReaderPromoter, MaxLevel: 2, StartDate: planDate(2023, time.January, 1)},
			{ID: 2, PlanType: PlanTypeReaderPromoter, MaxLevel: 2, StartDate: planDate(2025, time.January, 1)},
			{ID: 3, PlanType: PlanTypeReaderPromoter, MaxLevel: 2, StartDate: planDate(2026, time.January, 1)},
		},
		nil,
	)

	resolved, ok := idx.Resolve(TrackReader, nil, planDate(2025, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, int64(2), resolved.Plan.ID)
}

func TestResolve_NothingValid(t *testing.T) {
	end := planDate(2024, time.December, 31)
	idx := NewPlanIndex(
		[]CommissionPlan{
			{ID: 1, PlanType: PlanTypeReaderPromoter, MaxLevel: 2, StartDate: planDate(2024, time.January, 1), EndDate: &end},
		},
		nil,
	)

	_, ok := idx.Resolve(TrackReader, nil, planDate(2025, time.June, 1))
	assert.False(t, ok)
}

func TestPercentAt_MissingLevelIsZero(t *testing.T) {
	idx := NewPlanIndex(
		[]CommissionPlan{
			{ID: 1, PlanType: PlanTypeReaderPromoter, MaxLevel: 5, StartDate: planDate(2024, time.January, 1)},
		},
		[]CommissionPlanLevel{
			{PlanID: 1, Level: 1, Percent: decimal.NewFromFloat(0.10)},
		},
	)

	resolved, ok := idx.Resolve(TrackReader, nil, planDate(2025, time.June, 1))
	require.True(t, ok)
	assert.True(t, resolved.PercentAt(3).IsZero())
}
