package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kongfuworld/settlement/internal/clock"
	royaltydomain "github.com/kongfuworld/settlement/internal/royalty/domain"
	"github.com/kongfuworld/settlement/internal/royalty/repository"
	"github.com/kongfuworld/settlement/internal/settlement"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  royaltydomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) royaltydomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("royalty.service"),

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

	spendings, err := s.repo.ListSpendings(ctx, month.Key())
	if err != nil {
		return nil, err
	}
	if len(spendings) == 0 {
		return nil, settlement.ErrNoSourceRows
	}

	result := settlement.NewBatchResult(month)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)

		for _, spending := range spendings {
			novel, err := repoTx.GetNovel(ctx, spending.NovelID)
			if err != nil {
				return err
			}
			if novel == nil {
				result.Skip(fmt.Sprintf("spending %d: novel %d not found", spending.ID, spending.NovelID))
				continue
			}
			if novel.UserID == nil {
				result.Skip(fmt.Sprintf("spending %d: novel %d has no author", spending.ID, spending.NovelID))
				continue
			}
			authorID := *novel.UserID

			percent, err := s.resolvePercent(ctx, repoTx, spending.NovelID, authorID, spending.SpendTime)
			if err != nil {
				return err
			}

			record := royaltydomain.AuthorRoyaltyRecord{
				ID:              s.genID.Generate(),
				AuthorID:        authorID,
				NovelID:         spending.NovelID,
				SourceSpendID:   spending.ID,
				GrossAmountUSD:  spending.AmountUSD,
				AuthorAmountUSD: spending.AmountUSD.Mul(percent),
				SettlementMonth: month.Key(),
				CreatedAt:       s.clock.Now(ctx),
			}
			if err := repoTx.InsertRecord(ctx, record); err != nil {
				return err
			}
			result.Generated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("author royalties generated",
		zap.String("month", month.String()),
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// resolvePercent walks the fallback chain: contract active at the spend
// instant, then the newest default plan, then the hard fallback.
func (s *Service) resolvePercent(ctx context.Context, repo royaltydomain.Repository, novelID, authorID int64, at time.Time) (decimal.Decimal, error) {
	plan, err := repo.ContractPlanAt(ctx, novelID, authorID, at)
	if err != nil {
		return decimal.Zero, err
	}
	if plan != nil {
		return plan.RoyaltyPercent, nil
	}

	plan, err = repo.DefaultPlan(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if plan != nil {
		return plan.RoyaltyPercent, nil
	}

	return royaltydomain.FallbackRoyaltyPercent, nil
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

	deleted, err := s.repo.DeleteMonth(ctx, month.Key())
	if err != nil {
		return 0, err
	}

	s.log.Info("author royalties deleted",
		zap.String("month", month.String()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
