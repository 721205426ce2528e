package domain

import (
	"context"
	"time"

	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
)

type Repository interface {
	CountRecords(ctx context.Context, month time.Time) (int64, error)
	CountSettled(ctx context.Context, month time.Time) (int64, error)

	ListSpendings(ctx context.Context, month time.Time) ([]revenuedomain.RevenueRecord, error)
	// ListRoyalties joins each royalty to its source spending for the
	// spend instant.
	ListRoyalties(ctx context.Context, month time.Time) ([]AuthorRoyaltyRow, error)

	GetReferralEdge(ctx context.Context, userID int64) (*ReferralEdge, error)
	ListPlans(ctx context.Context) ([]CommissionPlan, error)
	ListPlanLevels(ctx context.Context) ([]CommissionPlanLevel, error)

	InsertTransaction(ctx context.Context, txn CommissionTransaction) error
	DeleteMonth(ctx context.Context, month time.Time) (int64, error)
}
