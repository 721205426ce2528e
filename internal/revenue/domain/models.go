// Package domain contains the reader spending output model, the
// subscription allocation ledger, and read models for the consumption
// events the allocator consumes.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type SourceType string

const (
	SourceChapterUnlock SourceType = "chapter_unlock"
	SourceSubscription  SourceType = "subscription"
)

// RevenueRecord is one month-scoped slice of reader spending. Subscription
// sources may produce one record per overlapped month; the sum of their
// days and amounts equals the service window and payment exactly.
type RevenueRecord struct {
	ID              snowflake.ID    `gorm:"primaryKey"`
	UserID          int64           `gorm:"not null;index"`
	NovelID         int64           `gorm:"not null;index"`
	KarmaAmount     int64           `gorm:"not null"`
	AmountUSD       decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	SourceType      SourceType      `gorm:"type:text;not null"`
	SourceID        int64           `gorm:"not null;index"`
	SpendTime       time.Time       `gorm:"not null"`
	SettlementMonth time.Time       `gorm:"type:date;not null;index"`
	Days            int             `gorm:"not null;default:0"`
	Settled         bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (RevenueRecord) TableName() string { return "reader_spending" }

// SubscriptionAllocation is the cross-month proration ledger: one row per
// (subscription, month) recording what has been allocated so far. The
// final-month catch-up reads prior months from here instead of re-deriving
// them from spending rows.
type SubscriptionAllocation struct {
	ID              snowflake.ID    `gorm:"primaryKey"`
	SubscriptionID  int64           `gorm:"not null;uniqueIndex:ux_sub_alloc_month"`
	SettlementMonth time.Time       `gorm:"type:date;not null;uniqueIndex:ux_sub_alloc_month"`
	Days            int             `gorm:"not null"`
	AmountUSD       decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (SubscriptionAllocation) TableName() string { return "subscription_allocation" }

// ChapterUnlock is the platform's unlock event table. Only karma unlocks
// with a positive cost settle.
type ChapterUnlock struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"not null"`
	ChapterID    int64  `gorm:"not null"`
	Cost         int64  `gorm:"not null"`
	UnlockMethod string `gorm:"type:text;not null"`
	UnlockedAt   time.Time
}

func (ChapterUnlock) TableName() string { return "chapter_unlocks" }

// ChampionSubscription is the platform's completed subscription payment
// record, with its service window [StartDate, EndDate).
type ChampionSubscription struct {
	ID            int64           `gorm:"primaryKey"`
	UserID        int64           `gorm:"not null"`
	NovelID       int64           `gorm:"not null"`
	PaymentAmount decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	PaymentStatus string          `gorm:"type:text;not null"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       time.Time       `gorm:"not null"`
	// SubscriptionDurationDays is the nominal duration the payment flow
	// recorded; the day count derived from the window is authoritative.
	SubscriptionDurationDays int
	CreatedAt                time.Time
}

func (ChampionSubscription) TableName() string { return "user_champion_subscription_record" }

// KarmaRate is one row of the time-versioned karma to USD table, valid over
// [EffectiveFrom, EffectiveTo).
type KarmaRate struct {
	ID            int64           `gorm:"primaryKey"`
	USDPerKarma   decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	EffectiveFrom time.Time       `gorm:"not null"`
	EffectiveTo   *time.Time
}

func (KarmaRate) TableName() string { return "karma_dollars" }

// ChapterUnlockRow is an unlock joined to its chapter for novel resolution.
type ChapterUnlockRow struct {
	ID          int64
	UserID      int64
	ChapterID   int64
	NovelID     int64
	KarmaAmount int64
	UnlockedAt  time.Time
}
