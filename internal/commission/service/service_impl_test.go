package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/kongfuworld/settlement/internal/clock"
	commissiondomain "github.com/kongfuworld/settlement/internal/commission/domain"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	royaltydomain "github.com/kongfuworld/settlement/internal/royalty/domain"
	"github.com/kongfuworld/settlement/internal/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, commissiondomain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&commissiondomain.CommissionTransaction{},
		&commissiondomain.ReferralEdge{},
		&commissiondomain.CommissionPlan{},
		&commissiondomain.CommissionPlanLevel{},
		&revenuedomain.RevenueRecord{},
		&royaltydomain.AuthorRoyaltyRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.New(),
	})
	return db, svc, node
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedDefaultPlan(t *testing.T, db *gorm.DB, id int64, planType commissiondomain.PlanType, maxLevel int) {
	t.Helper()
	require.NoError(t, db.Create(&commissiondomain.CommissionPlan{
		ID: id, PlanType: planType, MaxLevel: maxLevel,
		StartDate: utcDate(2024, time.January, 1),
	}).Error)
	require.NoError(t, db.Create(&[]commissiondomain.CommissionPlanLevel{
		{PlanID: id, Level: 1, Percent: decimal.NewFromFloat(0.10)},
		{PlanID: id, Level: 2, Percent: decimal.NewFromFloat(0.05)},
	}).Error)
}

func seedEdge(t *testing.T, db *gorm.DB, userID, referrerID int64, promoterPlanID *int64) {
	t.Helper()
	require.NoError(t, db.Create(&commissiondomain.ReferralEdge{
		UserID: userID, ReferrerID: referrerID, PromoterPlanID: promoterPlanID,
	}).Error)
}

func seedSpending(t *testing.T, db *gorm.DB, node *snowflake.Node, userID int64, amount string) snowflake.ID {
	t.Helper()
	id := node.Generate()
	require.NoError(t, db.Create(&revenuedomain.RevenueRecord{
		ID:              id,
		UserID:          userID,
		NovelID:         1,
		AmountUSD:       decimal.RequireFromString(amount),
		SourceType:      revenuedomain.SourceChapterUnlock,
		SourceID:        1,
		SpendTime:       utcDate(2025, time.October, 10),
		SettlementMonth: utcDate(2025, time.October, 1),
		CreatedAt:       utcDate(2025, time.October, 10),
	}).Error)
	return id
}

func TestGenerate_ReaderChain(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	// A(1) referred B(2) referred C(3); C spends $10.
	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, 2)
	seedEdge(t, db, 3, 2, nil)
	seedEdge(t, db, 2, 1, nil)
	spendID := seedSpending(t, db, node, 3, "10")

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)

	var txns []commissiondomain.CommissionTransaction
	require.NoError(t, db.Order("level").Find(&txns).Error)
	require.Len(t, txns, 2)

	assert.Equal(t, int64(2), txns[0].UserID)
	assert.Equal(t, 1, txns[0].Level)
	assert.Equal(t, "1", txns[0].CommissionAmountUSD.String())
	assert.Equal(t, commissiondomain.TrackReader, txns[0].CommissionType)
	require.NotNil(t, txns[0].SourceUserID)
	assert.Equal(t, int64(3), *txns[0].SourceUserID)
	assert.Equal(t, spendID, txns[0].ReferenceID)

	assert.Equal(t, int64(1), txns[1].UserID)
	assert.Equal(t, 2, txns[1].Level)
	assert.Equal(t, "0.5", txns[1].CommissionAmountUSD.String())
	assert.Equal(t, "10", txns[1].BaseAmountUSD.String())
}

func TestGenerate_AuthorTrack(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	seedDefaultPlan(t, db, 51, commissiondomain.PlanTypeAuthorPromoter, 2)
	seedEdge(t, db, 7, 2, nil)

	spendID := seedSpending(t, db, node, 9, "20")
	royaltyID := node.Generate()
	require.NoError(t, db.Create(&royaltydomain.AuthorRoyaltyRecord{
		ID:              royaltyID,
		AuthorID:        7,
		NovelID:         1,
		SourceSpendID:   spendID,
		GrossAmountUSD:  decimal.NewFromInt(20),
		AuthorAmountUSD: decimal.NewFromInt(10),
		SettlementMonth: utcDate(2025, time.October, 1),
		CreatedAt:       utcDate(2025, time.October, 10),
	}).Error)

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	var txn commissiondomain.CommissionTransaction
	require.NoError(t, db.First(&txn).Error)
	assert.Equal(t, int64(2), txn.UserID)
	assert.Equal(t, commissiondomain.TrackAuthor, txn.CommissionType)
	require.NotNil(t, txn.SourceAuthorID)
	assert.Equal(t, int64(7), *txn.SourceAuthorID)
	assert.Nil(t, txn.SourceUserID)
	assert.Equal(t, "1", txn.CommissionAmountUSD.String())
	assert.Equal(t, royaltyID, txn.ReferenceID)
}

func TestGenerate_AuthorTrackResolvesAtSpendInstant(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	// The plan lapses after August; the spend happened in June, so it
	// still governs no matter when the royalty row was written.
	end := utcDate(2025, time.August, 1)
	require.NoError(t, db.Create(&commissiondomain.CommissionPlan{
		ID: 52, PlanType: commissiondomain.PlanTypeAuthorPromoter, MaxLevel: 2,
		StartDate: utcDate(2024, time.January, 1), EndDate: &end,
	}).Error)
	require.NoError(t, db.Create(&commissiondomain.CommissionPlanLevel{
		PlanID: 52, Level: 1, Percent: decimal.NewFromFloat(0.10),
	}).Error)
	seedEdge(t, db, 7, 2, nil)

	spendID := node.Generate()
	require.NoError(t, db.Create(&revenuedomain.RevenueRecord{
		ID:              spendID,
		UserID:          9,
		NovelID:         1,
		AmountUSD:       decimal.NewFromInt(20),
		SourceType:      revenuedomain.SourceSubscription,
		SourceID:        1,
		SpendTime:       utcDate(2025, time.June, 10),
		SettlementMonth: utcDate(2025, time.June, 1),
		CreatedAt:       utcDate(2025, time.June, 10),
	}).Error)
	require.NoError(t, db.Create(&royaltydomain.AuthorRoyaltyRecord{
		ID:              node.Generate(),
		AuthorID:        7,
		NovelID:         1,
		SourceSpendID:   spendID,
		GrossAmountUSD:  decimal.NewFromInt(20),
		AuthorAmountUSD: decimal.NewFromInt(10),
		SettlementMonth: utcDate(2025, time.June, 1),
		CreatedAt:       time.Now().UTC(),
	}).Error)

	result, err := svc.Generate(ctx, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	var txn commissiondomain.CommissionTransaction
	require.NoError(t, db.First(&txn).Error)
	assert.Equal(t, int64(52), txn.PlanID)
	assert.Equal(t, commissiondomain.TrackAuthor, txn.CommissionType)
	assert.Equal(t, "1", txn.CommissionAmountUSD.String())
}

func TestGenerate_CyclicGraphTerminates(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	// 1 and 2 refer each other; the depth cap ends the climb.
	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, commissiondomain.MaxWalkDepth)
	seedEdge(t, db, 1, 2, nil)
	seedEdge(t, db, 2, 1, nil)
	seedSpending(t, db, node, 1, "10")

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)

	// Only levels 1 and 2 carry a percent.
	assert.Equal(t, 2, result.Generated)
}

func TestGenerate_StopsAtPlanMaxLevel(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, 1)
	seedEdge(t, db, 3, 2, nil)
	seedEdge(t, db, 2, 1, nil)
	seedSpending(t, db, node, 3, "10")

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	var txn commissiondomain.CommissionTransaction
	require.NoError(t, db.First(&txn).Error)
	assert.Equal(t, 1, txn.Level)
}

func TestGenerate_ExpiredAssignedPlanFallsBackToDefault(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	ownerID := int64(2)
	expiry := utcDate(2025, time.June, 1)
	require.NoError(t, db.Create(&commissiondomain.CommissionPlan{
		ID: 99, PlanType: commissiondomain.PlanTypeReaderPromoter, MaxLevel: 2,
		StartDate: utcDate(2024, time.January, 1), EndDate: &expiry,
		IsCustom: true, OwnerUserID: &ownerID,
	}).Error)
	require.NoError(t, db.Create(&commissiondomain.CommissionPlanLevel{
		PlanID: 99, Level: 1, Percent: decimal.NewFromFloat(0.20),
	}).Error)
	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, 2)

	assignedID := int64(99)
	seedEdge(t, db, 3, 2, &assignedID)
	seedSpending(t, db, node, 3, "10")

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	var txn commissiondomain.CommissionTransaction
	require.NoError(t, db.First(&txn).Error)
	assert.Equal(t, int64(50), txn.PlanID)
	assert.Equal(t, "1", txn.CommissionAmountUSD.String())
}

func TestGenerate_UnresolvedLevelContinuesClimb(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	// No defaults; only the level-2 edge carries a valid assignment. The
	// level-1 beneficiary earns nothing but the climb reaches level 2.
	assignedID := int64(60)
	require.NoError(t, db.Create(&commissiondomain.CommissionPlan{
		ID: 60, PlanType: commissiondomain.PlanTypeReaderPromoter, MaxLevel: 5,
		StartDate: utcDate(2024, time.January, 1),
		IsCustom:  true, OwnerUserID: &assignedID,
	}).Error)
	require.NoError(t, db.Create(&[]commissiondomain.CommissionPlanLevel{
		{PlanID: 60, Level: 1, Percent: decimal.NewFromFloat(0.10)},
		{PlanID: 60, Level: 2, Percent: decimal.NewFromFloat(0.05)},
	}).Error)
	seedEdge(t, db, 3, 2, nil)
	seedEdge(t, db, 2, 1, &assignedID)
	seedSpending(t, db, node, 3, "10")

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	var txn commissiondomain.CommissionTransaction
	require.NoError(t, db.First(&txn).Error)
	assert.Equal(t, int64(1), txn.UserID)
	assert.Equal(t, 2, txn.Level)
	assert.Equal(t, "0.5", txn.CommissionAmountUSD.String())
}

func TestGenerate_NoReferralNoCommission(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, 2)
	seedSpending(t, db, node, 3, "10")

	result, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Generated)
}

func TestGenerate_Idempotence(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, 2)
	seedEdge(t, db, 3, 2, nil)
	seedSpending(t, db, node, 3, "10")

	_, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)

	_, err = svc.Generate(ctx, "2025-10")
	assert.ErrorIs(t, err, settlement.ErrAlreadyGenerated)
}

func TestDelete_RefusesSettledMonth(t *testing.T) {
	db, svc, node := newTestService(t)
	ctx := context.Background()

	seedDefaultPlan(t, db, 50, commissiondomain.PlanTypeReaderPromoter, 2)
	seedEdge(t, db, 3, 2, nil)
	seedSpending(t, db, node, 3, "10")

	_, err := svc.Generate(ctx, "2025-10")
	require.NoError(t, err)

	require.NoError(t, db.Model(&commissiondomain.CommissionTransaction{}).
		Where("1 = 1").Update("settled", true).Error)

	_, err = svc.Delete(ctx, "2025-10")
	assert.ErrorIs(t, err, settlement.ErrMonthSettled)
}
