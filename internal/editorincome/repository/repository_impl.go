package repository

import (
	"context"
	"time"

	editorincomedomain "github.com/kongfuworld/settlement/internal/editorincome/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) editorincomedomain.Repository {
	return &repository{db: db}
}

func (r *repository) ChampionIncome(ctx context.Context, novelID int64, month time.Time) (decimal.Decimal, error) {
	var row editorincomedomain.NovelMonthlyIncome
	err := r.db.WithContext(ctx).Model(&editorincomedomain.NovelMonthlyIncome{}).
		Where("novel_id = ? AND month = ? AND income_type = ?", novelID, month, "champion").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return row.IncomeUSD, nil
}

func (r *repository) ListActiveContracts(ctx context.Context, novelID int64) ([]editorincomedomain.NovelEditorContract, error) {
	var contracts []editorincomedomain.NovelEditorContract
	err := r.db.WithContext(ctx).Model(&editorincomedomain.NovelEditorContract{}).
		Where("novel_id = ? AND share_type = ? AND status = ?", novelID, "percent_of_book", "active").
		Find(&contracts).Error
	return contracts, err
}

func (r *repository) EditorWordCounts(ctx context.Context, novelID int64) ([]editorincomedomain.EditorWordCount, error) {
	var rows []editorincomedomain.EditorWordCount
	err := r.db.WithContext(ctx).Raw(
		`SELECT s.editor_admin_id, COALESCE(SUM(c.word_count), 0) AS total_words
		 FROM editor_chapter_share_snapshot s
		 INNER JOIN chapter c ON c.id = s.chapter_id
		 WHERE s.novel_id = ? AND c.is_released = ?
		 GROUP BY s.editor_admin_id`,
		novelID, true,
	).Scan(&rows).Error
	return rows, err
}

func (r *repository) AccumulateIncome(ctx context.Context, record editorincomedomain.EditorIncomeRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "editor_admin_id"},
			{Name: "novel_id"},
			{Name: "month"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"gross_book_income_usd": gorm.Expr("gross_book_income_usd + ?", record.GrossBookIncomeUSD),
			"editor_income_usd":     gorm.Expr("editor_income_usd + ?", record.EditorIncomeUSD),
			"updated_at":            record.UpdatedAt,
		}),
	}).Create(&record).Error
}
