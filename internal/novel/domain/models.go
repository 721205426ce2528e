// Package domain contains read models for the novel catalog tables owned by
// the platform. Settlement reads them and never writes.
package domain

import "time"

// Novel carries the author link settlement needs; the catalog owns the rest
// of the row.
type Novel struct {
	ID     int64  `gorm:"primaryKey"`
	Title  string `gorm:"type:text"`
	UserID *int64 `gorm:"column:user_id"` // author; nullable for imported novels
}

func (Novel) TableName() string { return "novel" }

// Chapter is read for the unlock join (novel resolution) and for released
// word counts in editor income distribution.
type Chapter struct {
	ID         int64 `gorm:"primaryKey"`
	NovelID    int64 `gorm:"index;not null"`
	WordCount  int64
	IsReleased bool
	ReleasedAt *time.Time
}

func (Chapter) TableName() string { return "chapter" }
