// Package domain contains the editor income ledger and the contract and
// attribution tables its distribution reads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type EditorRole string

const (
	RoleEditor      EditorRole = "editor"
	RoleChiefEditor EditorRole = "chief_editor"
)

// EditorIncomeRecord is the accumulating per-editor-per-novel-per-month
// ledger row. Unlike the other settlement outputs it upserts: re-running
// distribution adds to existing totals instead of conflicting.
type EditorIncomeRecord struct {
	ID                 snowflake.ID    `gorm:"primaryKey"`
	EditorAdminID      int64           `gorm:"not null;uniqueIndex:ux_editor_income"`
	NovelID            int64           `gorm:"not null;uniqueIndex:ux_editor_income"`
	Month              time.Time       `gorm:"type:date;not null;uniqueIndex:ux_editor_income"`
	GrossBookIncomeUSD decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	EditorIncomeUSD    decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

func (EditorIncomeRecord) TableName() string { return "editor_income_monthly" }

// NovelEditorContract assigns an editor or chief editor a percent of the
// novel's champion income while active.
type NovelEditorContract struct {
	ID            int64           `gorm:"primaryKey"`
	NovelID       int64           `gorm:"not null;index"`
	EditorAdminID int64           `gorm:"not null"`
	Role          EditorRole      `gorm:"type:text;not null"`
	SharePercent  decimal.Decimal `gorm:"type:decimal(9,4);not null"` // 0-100
	ShareType     string          `gorm:"type:text;not null"`
	Status        string          `gorm:"type:text;not null"`
}

func (NovelEditorContract) TableName() string { return "novel_editor_contract" }

// ChapterShareSnapshot attributes a chapter to the editor responsible for
// it; word counts aggregate through the chapter table.
type ChapterShareSnapshot struct {
	ID            int64 `gorm:"primaryKey"`
	NovelID       int64 `gorm:"not null;index"`
	ChapterID     int64 `gorm:"not null"`
	EditorAdminID int64 `gorm:"not null"`
}

func (ChapterShareSnapshot) TableName() string { return "editor_chapter_share_snapshot" }

// NovelMonthlyIncome is the pre-aggregated per-novel monthly income table;
// distribution consumes its champion rows.
type NovelMonthlyIncome struct {
	ID         int64           `gorm:"primaryKey"`
	NovelID    int64           `gorm:"not null;index"`
	Month      time.Time       `gorm:"type:date;not null"`
	IncomeType string          `gorm:"type:text;not null"`
	IncomeUSD  decimal.Decimal `gorm:"type:decimal(18,8);not null"`
}

func (NovelMonthlyIncome) TableName() string { return "novel_income_monthly" }

// EditorWordCount is one editor's released word contribution to a novel.
type EditorWordCount struct {
	EditorAdminID int64
	TotalWords    int64
}
