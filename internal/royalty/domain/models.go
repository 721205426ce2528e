// Package domain contains the author royalty output model and the contract
// and plan tables its percent resolution reads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// AuthorRoyaltyRecord is the author's share of one spending row. Exactly
// one per spending row per month.
type AuthorRoyaltyRecord struct {
	ID              snowflake.ID    `gorm:"primaryKey"`
	AuthorID        int64           `gorm:"not null;index"`
	NovelID         int64           `gorm:"not null;index"`
	SourceSpendID   snowflake.ID    `gorm:"not null;index"`
	GrossAmountUSD  decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	AuthorAmountUSD decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	SettlementMonth time.Time       `gorm:"type:date;not null;index"`
	Settled         bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (AuthorRoyaltyRecord) TableName() string { return "author_royalty" }

// RoyaltyContract binds an author-novel pair to a plan over
// [EffectiveFrom, EffectiveTo).
type RoyaltyContract struct {
	ID            int64 `gorm:"primaryKey"`
	NovelID       int64 `gorm:"not null;index"`
	AuthorID      int64 `gorm:"not null"`
	PlanID        int64 `gorm:"not null"`
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

func (RoyaltyContract) TableName() string { return "novel_royalty_contract" }

// RoyaltyPlan holds a royalty fraction (0.5 = 50%).
type RoyaltyPlan struct {
	ID             int64           `gorm:"primaryKey"`
	Name           string          `gorm:"type:text"`
	RoyaltyPercent decimal.Decimal `gorm:"type:decimal(9,6);not null"`
	IsDefault      bool            `gorm:"not null;default:false"`
	StartDate      time.Time
}

func (RoyaltyPlan) TableName() string { return "author_royalty_plan" }
