package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kongfuworld/settlement/internal/clock"
	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	"github.com/kongfuworld/settlement/internal/revenue/repository"
	"github.com/kongfuworld/settlement/internal/settlement"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  revenuedomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) revenuedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("revenue.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) Generate(ctx context.Context, monthToken string) (*settlement.BatchResult, error) {
	month, err := settlement.ParseMonth(monthToken)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.CountRecords(ctx, month.Key())
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, settlement.ErrAlreadyGenerated
	}

	result := settlement.NewBatchResult(month)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)

		if err := s.allocateChapterUnlocks(ctx, repoTx, month, result); err != nil {
			return err
		}
		return s.allocateSubscriptions(ctx, repoTx, month, result)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reader spending generated",
		zap.String("month", month.String()),
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (s *Service) allocateChapterUnlocks(ctx context.Context, repo revenuedomain.Repository, month settlement.Month, result *settlement.BatchResult) error {
	unlocks, err := repo.ListChapterUnlocks(ctx, month.Start(), month.End())
	if err != nil {
		return err
	}

	for _, unlock := range unlocks {
		usdPerKarma := revenuedomain.DefaultUSDPerKarma
		rate, err := repo.RateAt(ctx, unlock.UnlockedAt)
		if err != nil {
			return err
		}
		if rate != nil {
			usdPerKarma = rate.USDPerKarma
		} else {
			result.Warn(fmt.Sprintf("unlock %d: no karma rate at %s, default applied", unlock.ID, unlock.UnlockedAt.Format(time.RFC3339)))
		}

		amount := karmaToUSD(unlock.KarmaAmount, usdPerKarma)
		record := revenuedomain.RevenueRecord{
			ID:              s.genID.Generate(),
			UserID:          unlock.UserID,
			NovelID:         unlock.NovelID,
			KarmaAmount:     unlock.KarmaAmount,
			AmountUSD:       amount,
			SourceType:      revenuedomain.SourceChapterUnlock,
			SourceID:        unlock.ID,
			SpendTime:       unlock.UnlockedAt,
			SettlementMonth: month.Key(),
			CreatedAt:       s.clock.Now(ctx),
		}
		if err := repo.InsertRecord(ctx, record); err != nil {
			return err
		}
		result.Generated++
	}
	return nil
}

func (s *Service) allocateSubscriptions(ctx context.Context, repo revenuedomain.Repository, month settlement.Month, result *settlement.BatchResult) error {
	subs, err := repo.ListOverlappingSubscriptions(ctx, month.Start(), month.End())
	if err != nil {
		return err
	}

	for _, sub := range subs {
		share, skip, err := s.prorateSubscription(ctx, repo, sub, month, result)
		if err != nil {
			return err
		}
		if skip != "" {
			result.Skip(skip)
			continue
		}

		now := s.clock.Now(ctx)
		record := revenuedomain.RevenueRecord{
			ID:              s.genID.Generate(),
			UserID:          sub.UserID,
			NovelID:         sub.NovelID,
			AmountUSD:       share.Amount,
			SourceType:      revenuedomain.SourceSubscription,
			SourceID:        sub.ID,
			SpendTime:       share.SpendTime,
			SettlementMonth: month.Key(),
			Days:            share.Days,
			CreatedAt:       now,
		}
		if err := repo.InsertRecord(ctx, record); err != nil {
			return err
		}
		if err := repo.InsertAllocation(ctx, revenuedomain.SubscriptionAllocation{
			ID:              s.genID.Generate(),
			SubscriptionID:  sub.ID,
			SettlementMonth: month.Key(),
			Days:            share.Days,
			AmountUSD:       share.Amount,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		result.Generated++
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, monthToken string) (int64, error) {
	month, err := settlement.ParseMonth(monthToken)
	if err != nil {
		return 0, err
	}

	settled, err := s.repo.CountSettled(ctx, month.Key())
	if err != nil {
		return 0, err
	}
	if settled > 0 {
		return 0, settlement.ErrMonthSettled
	}

	var deleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err = repository.NewRepository(tx).DeleteMonth(ctx, month.Key())
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("reader spending deleted",
		zap.String("month", month.String()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
