package repository

import (
	"context"
	"time"

	noveldomain "github.com/kongfuworld/settlement/internal/novel/domain"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	royaltydomain "github.com/kongfuworld/settlement/internal/royalty/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) royaltydomain.Repository {
	return &repository{db: db}
}

func (r *repository) CountRecords(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&royaltydomain.AuthorRoyaltyRecord{}).
		Where("settlement_month = ?", month).
		Count(&count).Error
	return count, err
}

func (r *repository) CountSettled(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&royaltydomain.AuthorRoyaltyRecord{}).
		Where("settlement_month = ? AND settled = ?", month, true).
		Count(&count).Error
	return count, err
}

func (r *repository) ListSpendings(ctx context.Context, month time.Time) ([]revenuedomain.RevenueRecord, error) {
	var rows []revenuedomain.RevenueRecord
	err := r.db.WithContext(ctx).Model(&revenuedomain.RevenueRecord{}).
		Where("settlement_month = ?", month).
		Order("spend_time").
		Find(&rows).Error
	return rows, err
}

func (r *repository) GetNovel(ctx context.Context, novelID int64) (*noveldomain.Novel, error) {
	var novel noveldomain.Novel
	err := r.db.WithContext(ctx).Model(&noveldomain.Novel{}).
		Where("id = ?", novelID).
		First(&novel).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &novel, nil
}

func (r *repository) ContractPlanAt(ctx context.Context, novelID, authorID int64, at time.Time) (*royaltydomain.RoyaltyPlan, error) {
	var plan royaltydomain.RoyaltyPlan
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.* FROM author_royalty_plan p
		 INNER JOIN novel_royalty_contract c ON c.plan_id = p.id
		 WHERE c.novel_id = ? AND c.author_id = ?
		 AND c.effective_from <= ?
		 AND (c.effective_to IS NULL OR c.effective_to > ?)
		 ORDER BY c.effective_from DESC
		 LIMIT 1`,
		novelID, authorID, at, at,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repository) DefaultPlan(ctx context.Context) (*royaltydomain.RoyaltyPlan, error) {
	var plan royaltydomain.RoyaltyPlan
	err := r.db.WithContext(ctx).Model(&royaltydomain.RoyaltyPlan{}).
		Where("is_default = ?", true).
		Order("start_date DESC").
		First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) InsertRecord(ctx context.Context, record royaltydomain.AuthorRoyaltyRecord) error {
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *repository) DeleteMonth(ctx context.Context, month time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("settlement_month = ?", month).
		Delete(&royaltydomain.AuthorRoyaltyRecord{})
	return res.RowsAffected, res.Error
}
