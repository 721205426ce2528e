// Package seed bootstraps the reference rows the settlement pipeline
// resolves against when no custom assignment exists: the default
// commission plans for both tracks, the default author royalty plan,
// and an initial karma conversion rate.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	commissiondomain "github.com/kongfuworld/settlement/internal/commission/domain"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	royaltydomain "github.com/kongfuworld/settlement/internal/royalty/domain"
)

const (
	defaultReaderPlanName = "Default Reader Promoter"
	defaultAuthorPlanName = "Default Author Promoter"
	defaultRoyaltyName    = "Standard Author Royalty"
)

// EnsureDefaults seeds the default plans and rate used as fallbacks. It is
// idempotent and safe to run at every startup.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCommissionPlanTx(ctx, tx, commissiondomain.PlanTypeReaderPromoter, defaultReaderPlanName); err != nil {
			return err
		}
		if err := ensureCommissionPlanTx(ctx, tx, commissiondomain.PlanTypeAuthorPromoter, defaultAuthorPlanName); err != nil {
			return err
		}
		if err := ensureRoyaltyPlanTx(ctx, tx); err != nil {
			return err
		}
		return ensureKarmaRateTx(ctx, tx)
	})
}

func ensureCommissionPlanTx(ctx context.Context, tx *gorm.DB, planType commissiondomain.PlanType, name string) error {
	var existing commissiondomain.CommissionPlan
	err := tx.WithContext(ctx).
		Where("plan_type = ? AND is_custom = ?", planType, false).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	plan := commissiondomain.CommissionPlan{
		Name:      name,
		PlanType:  planType,
		MaxLevel:  2,
		StartDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsCustom:  false,
	}
	if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
		return err
	}

	levels := []commissiondomain.CommissionPlanLevel{
		{PlanID: plan.ID, Level: 1, Percent: decimal.NewFromFloat(0.10)},
		{PlanID: plan.ID, Level: 2, Percent: decimal.NewFromFloat(0.05)},
	}
	return tx.WithContext(ctx).Create(&levels).Error
}

func ensureRoyaltyPlanTx(ctx context.Context, tx *gorm.DB) error {
	var existing royaltydomain.RoyaltyPlan
	err := tx.WithContext(ctx).
		Where("is_default = ?", true).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	plan := royaltydomain.RoyaltyPlan{
		Name:           defaultRoyaltyName,
		RoyaltyPercent: decimal.NewFromFloat(0.5),
		IsDefault:      true,
		StartDate:      time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	return tx.WithContext(ctx).Create(&plan).Error
}

func ensureKarmaRateTx(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&revenuedomain.KarmaRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rate := revenuedomain.KarmaRate{
		USDPerKarma:   revenuedomain.DefaultUSDPerKarma,
		EffectiveFrom: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	return tx.WithContext(ctx).Create(&rate).Error
}
