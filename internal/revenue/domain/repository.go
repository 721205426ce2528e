package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AllocatedTotals is what earlier months already took from a subscription.
type AllocatedTotals struct {
	Days   int
	Amount decimal.Decimal
}

type Repository interface {
	CountRecords(ctx context.Context, month time.Time) (int64, error)
	CountSettled(ctx context.Context, month time.Time) (int64, error)
	HasSubscriptionRecord(ctx context.Context, subscriptionID int64, month time.Time) (bool, error)

	ListChapterUnlocks(ctx context.Context, start, end time.Time) ([]ChapterUnlockRow, error)
	ListOverlappingSubscriptions(ctx context.Context, start, end time.Time) ([]ChampionSubscription, error)
	RateAt(ctx context.Context, at time.Time) (*KarmaRate, error)

	AllocatedBefore(ctx context.Context, subscriptionID int64, month time.Time) (AllocatedTotals, error)

	InsertRecord(ctx context.Context, record RevenueRecord) error
	InsertAllocation(ctx context.Context, allocation SubscriptionAllocation) error
	DeleteMonth(ctx context.Context, month time.Time) (int64, error)
}
