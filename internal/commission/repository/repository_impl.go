package repository

import (
	"context"
	"time"

	commissiondomain "github.com/kongfuworld/settlement/internal/commission/domain"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) commissiondomain.Repository {
	return &repository{db: db}
}

func (r *repository) CountRecords(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&commissiondomain.CommissionTransaction{}).
		Where("settlement_month = ?", month).
		Count(&count).Error
	return count, err
}

func (r *repository) CountSettled(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&commissiondomain.CommissionTransaction{}).
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

func (r *repository) ListRoyalties(ctx context.Context, month time.Time) ([]commissiondomain.AuthorRoyaltyRow, error) {
	var rows []commissiondomain.AuthorRoyaltyRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT ar.id, ar.author_id, ar.novel_id, ar.author_amount_usd, rs.spend_time
		 FROM author_royalty ar
		 INNER JOIN reader_spending rs ON ar.source_spend_id = rs.id
		 WHERE ar.settlement_month = ?
		 ORDER BY rs.spend_time`,
		month,
	).Scan(&rows).Error
	return rows, err
}

func (r *repository) GetReferralEdge(ctx context.Context, userID int64) (*commissiondomain.ReferralEdge, error) {
	var edge commissiondomain.ReferralEdge
	err := r.db.WithContext(ctx).Model(&commissiondomain.ReferralEdge{}).
		Where("user_id = ?", userID).
		First(&edge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &edge, nil
}

func (r *repository) ListPlans(ctx context.Context) ([]commissiondomain.CommissionPlan, error) {
	var plans []commissiondomain.CommissionPlan
	err := r.db.WithContext(ctx).Find(&plans).Error
	return plans, err
}

func (r *repository) ListPlanLevels(ctx context.Context) ([]commissiondomain.CommissionPlanLevel, error) {
	var levels []commissiondomain.CommissionPlanLevel
	err := r.db.WithContext(ctx).Find(&levels).Error
	return levels, err
}

func (r *repository) InsertTransaction(ctx context.Context, txn commissiondomain.CommissionTransaction) error {
	return r.db.WithContext(ctx).Create(&txn).Error
}

func (r *repository) DeleteMonth(ctx context.Context, month time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("settlement_month = ?", month).
		Delete(&commissiondomain.CommissionTransaction{})
	return res.RowsAffected, res.Error
}
