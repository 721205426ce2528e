// Package domain contains the commission transaction output model, the
// referral graph read models, and the time-versioned plan resolution used
// by the propagation walk.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Track selects one of the two independent propagation walks. Each referral
// edge carries its own plan assignment per track.
type Track string

const (
	TrackReader Track = "reader_referral"
	TrackAuthor Track = "author_referral"
)

// PlanType returns the commission_plan type the track resolves against.
func (t Track) PlanType() PlanType {
	if t == TrackAuthor {
		return PlanTypeAuthorPromoter
	}
	return PlanTypeReaderPromoter
}

type PlanType string

const (
	PlanTypeReaderPromoter PlanType = "reader_promoter"
	PlanTypeAuthorPromoter PlanType = "author_promoter"
)

// CommissionTransaction is one level's commission for one source record.
type CommissionTransaction struct {
	ID                  snowflake.ID    `gorm:"primaryKey"`
	UserID              int64           `gorm:"not null;index"` // beneficiary
	SourceUserID        *int64          `gorm:"index"`
	SourceAuthorID      *int64          `gorm:"index"`
	NovelID             int64           `gorm:"not null"`
	PlanID              int64           `gorm:"not null"`
	Level               int             `gorm:"not null"`
	CommissionType      Track           `gorm:"type:text;not null"`
	BaseAmountUSD       decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	CommissionAmountUSD decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	ReferenceID         snowflake.ID    `gorm:"not null;index"`
	SettlementMonth     time.Time       `gorm:"type:date;not null;index"`
	Settled             bool            `gorm:"not null;default:false"`
	CreatedAt           time.Time       `gorm:"not null"`
}

func (CommissionTransaction) TableName() string { return "commission_transaction" }

// ReferralEdge is the directed user to referrer link, with one plan
// assignment per track. Static data owned by the platform.
type ReferralEdge struct {
	UserID         int64  `gorm:"primaryKey;column:user_id"`
	ReferrerID     int64  `gorm:"not null;index"`
	PromoterPlanID *int64
	AuthorPlanID   *int64
}

func (ReferralEdge) TableName() string { return "referrals" }

// PlanIDFor picks the edge's assignment for a track.
func (e ReferralEdge) PlanIDFor(track Track) *int64 {
	if track == TrackAuthor {
		return e.AuthorPlanID
	}
	return e.PromoterPlanID
}

// CommissionPlan is a leveled percentage schedule valid over
// [StartDate, EndDate]; EndDate nil means open-ended. Custom plans are
// owned by a user; default plans are unowned.
type CommissionPlan struct {
	ID          int64    `gorm:"primaryKey"`
	Name        string   `gorm:"type:text"`
	PlanType    PlanType `gorm:"type:text;not null"`
	MaxLevel    int      `gorm:"not null"`
	StartDate   time.Time
	EndDate     *time.Time
	IsCustom    bool
	OwnerUserID *int64
}

func (CommissionPlan) TableName() string { return "commission_plan" }

// ValidAt reports whether the plan's effective window covers t.
func (p CommissionPlan) ValidAt(t time.Time) bool {
	if p.StartDate.After(t) {
		return false
	}
	return p.EndDate == nil || !p.EndDate.Before(t)
}

// CommissionPlanLevel holds one level's fraction (0.10 = 10%).
type CommissionPlanLevel struct {
	ID      int64           `gorm:"primaryKey"`
	PlanID  int64           `gorm:"not null;index"`
	Level   int             `gorm:"not null"`
	Percent decimal.Decimal `gorm:"type:decimal(9,6);not null"`
}

func (CommissionPlanLevel) TableName() string { return "commission_plan_level" }

// AuthorRoyaltyRow is a royalty joined to its source spending. Plan
// validity for the author track resolves at the spend instant, not the
// royalty row's write time, so regeneration cannot flip the plan.
type AuthorRoyaltyRow struct {
	ID              snowflake.ID
	AuthorID        int64
	NovelID         int64
	AuthorAmountUSD decimal.Decimal
	SpendTime       time.Time
}
