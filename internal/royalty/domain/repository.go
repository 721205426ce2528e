package domain

import (
	"context"
	"time"

	noveldomain "github.com/kongfuworld/settlement/internal/novel/domain"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
)

type Repository interface {
	CountRecords(ctx context.Context, month time.Time) (int64, error)
	CountSettled(ctx context.Context, month time.Time) (int64, error)

	ListSpendings(ctx context.Context, month time.Time) ([]revenuedomain.RevenueRecord, error)
	GetNovel(ctx context.Context, novelID int64) (*noveldomain.Novel, error)

	// ContractPlanAt resolves the plan bound by a contract active at the
	// spend instant; nil when no contract covers it.
	ContractPlanAt(ctx context.Context, novelID, authorID int64, at time.Time) (*RoyaltyPlan, error)
	// DefaultPlan is the newest plan flagged default; nil when none exists.
	DefaultPlan(ctx context.Context) (*RoyaltyPlan, error)

	InsertRecord(ctx context.Context, record AuthorRoyaltyRecord) error
	DeleteMonth(ctx context.Context, month time.Time) (int64, error)
}
