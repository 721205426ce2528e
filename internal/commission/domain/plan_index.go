package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PlanSource tags how a plan resolved: the edge's own assignment, or the
// track's default after the assignment proved invalid at the event instant.
type PlanSource int

const (
	PlanSourceAssigned PlanSource = iota
	PlanSourceDefault
)

// ResolvedPlan is the outcome of one resolution: the plan, its levels, and
// where it came from.
type ResolvedPlan struct {
	Plan   CommissionPlan
	Levels map[int]decimal.Decimal
	Source PlanSource
}

// PercentAt returns the level's fraction, zero when the plan has no entry
// for the level.
func (r *ResolvedPlan) PercentAt(level int) decimal.Decimal {
	if p, ok := r.Levels[level]; ok {
		return p
	}
	return decimal.Zero
}

// PlanIndex is an in-memory snapshot of the plan tables, loaded once per
// batch so resolution is a pure lookup.
type PlanIndex struct {
	byID     map[int64]*ResolvedPlan
	defaults map[PlanType][]*ResolvedPlan // sorted by StartDate descending
}

func NewPlanIndex(plans []CommissionPlan, levels []CommissionPlanLevel) *PlanIndex {
	idx := &PlanIndex{
		byID:     make(map[int64]*ResolvedPlan, len(plans)),
		defaults: make(map[PlanType][]*ResolvedPlan),
	}

	for _, plan := range plans {
		entry := &ResolvedPlan{Plan: plan, Levels: make(map[int]decimal.Decimal)}
		idx.byID[plan.ID] = entry
		if !plan.IsCustom && plan.OwnerUserID == nil {
			idx.defaults[plan.PlanType] = append(idx.defaults[plan.PlanType], entry)
		}
	}
	for _, level := range levels {
		if entry, ok := idx.byID[level.PlanID]; ok {
			entry.Levels[level.Level] = level.Percent
		}
	}
	for _, entries := range idx.defaults {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Plan.StartDate.After(entries[j].Plan.StartDate)
		})
	}
	return idx
}

// Resolve picks the plan governing one walk level: the assigned plan when
// it exists, matches the track, and is valid at the event instant;
// otherwise the newest default plan of the track valid at that instant.
// ok is false when neither resolves, meaning the level earns nothing but
// the walk continues.
func (idx *PlanIndex) Resolve(track Track, assignedPlanID *int64, at time.Time) (ResolvedPlan, bool) {
	if assignedPlanID != nil {
		if entry, ok := idx.byID[*assignedPlanID]; ok &&
			entry.Plan.PlanType == track.PlanType() && entry.Plan.ValidAt(at) {
			return ResolvedPlan{Plan: entry.Plan, Levels: entry.Levels, Source: PlanSourceAssigned}, true
		}
	}
	for _, entry := range idx.defaults[track.PlanType()] {
		if entry.Plan.ValidAt(at) {
			return ResolvedPlan{Plan: entry.Plan, Levels: entry.Levels, Source: PlanSourceDefault}, true
		}
	}
	return ResolvedPlan{}, false
}
