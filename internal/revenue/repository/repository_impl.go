package repository

import (
	"context"
	"time"

	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) revenuedomain.Repository {
	return &repository{db: db}
}

func (r *repository) CountRecords(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&revenuedomain.RevenueRecord{}).
		Where("settlement_month = ?", month).
		Count(&count).Error
	return count, err
}

func (r *repository) CountSettled(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&revenuedomain.RevenueRecord{}).
		Where("settlement_month = ? AND settled = ?", month, true).
		Count(&count).Error
	return count, err
}

func (r *repository) HasSubscriptionRecord(ctx context.Context, subscriptionID int64, month time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&revenuedomain.RevenueRecord{}).
		Where("source_type = ? AND source_id = ? AND settlement_month = ?",
			revenuedomain.SourceSubscription, subscriptionID, month).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListChapterUnlocks(ctx context.Context, start, end time.Time) ([]revenuedomain.ChapterUnlockRow, error) {
	var rows []revenuedomain.ChapterUnlockRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT cu.id, cu.user_id, cu.chapter_id, c.novel_id, cu.cost AS karma_amount, cu.unlocked_at
		 FROM chapter_unlocks cu
		 INNER JOIN chapter c ON cu.chapter_id = c.id
		 WHERE cu.unlocked_at >= ? AND cu.unlocked_at < ?
		 AND cu.unlock_method = 'karma' AND cu.cost > 0
		 ORDER BY cu.unlocked_at`,
		start, end,
	).Scan(&rows).Error
	return rows, err
}

func (r *repository) ListOverlappingSubscriptions(ctx context.Context, start, end time.Time) ([]revenuedomain.ChampionSubscription, error) {
	var subs []revenuedomain.ChampionSubscription
	err := r.db.WithContext(ctx).Model(&revenuedomain.ChampionSubscription{}).
		Where("payment_status = ? AND payment_amount > 0", "completed").
		Where("end_date > ? AND start_date < ?", start, end).
		Order("start_date").
		Find(&subs).Error
	return subs, err
}

func (r *repository) RateAt(ctx context.Context, at time.Time) (*revenuedomain.KarmaRate, error) {
	var rate revenuedomain.KarmaRate
	err := r.db.WithContext(ctx).Model(&revenuedomain.KarmaRate{}).
		Where("effective_from <= ? AND (effective_to IS NULL OR effective_to > ?)", at, at).
		Order("effective_from DESC").
		First(&rate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) AllocatedBefore(ctx context.Context, subscriptionID int64, month time.Time) (revenuedomain.AllocatedTotals, error) {
	var row struct {
		Days   int64
		Amount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(days), 0) AS days, COALESCE(SUM(amount_usd), 0) AS amount
		 FROM subscription_allocation
		 WHERE subscription_id = ? AND settlement_month < ?`,
		subscriptionID, month,
	).Scan(&row).Error
	if err != nil {
		return revenuedomain.AllocatedTotals{}, err
	}
	return revenuedomain.AllocatedTotals{Days: int(row.Days), Amount: row.Amount}, nil
}

func (r *repository) InsertRecord(ctx context.Context, record revenuedomain.RevenueRecord) error {
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *repository) InsertAllocation(ctx context.Context, allocation revenuedomain.SubscriptionAllocation) error {
	return r.db.WithContext(ctx).Create(&allocation).Error
}

func (r *repository) DeleteMonth(ctx context.Context, month time.Time) (int64, error) {
	if err := r.db.WithContext(ctx).
		Where("settlement_month = ?", month).
		Delete(&revenuedomain.SubscriptionAllocation{}).Error; err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).
		Where("settlement_month = ?", month).
		Delete(&revenuedomain.RevenueRecord{})
	return res.RowsAffected, res.Error
}
