package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kongfuworld/settlement/internal/clock"
	commissiondomain "github.com/kongfuworld/settlement/internal/commission/domain"
	"github.com/kongfuworld/settlement/internal/commission/repository"
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
	repo  commissiondomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) commissiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("commission.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.NewRepository(p.DB),
	}
}

// walkOrigin is one walk's starting point: the consumer or author whose
// record funds the chain.
type walkOrigin struct {
	track       commissiondomain.Track
	startUserID int64
	novelID     int64
	base        decimal.Decimal
	referenceID snowflake.ID
	at          time.Time
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

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := s.repo.ListPlanLevels(ctx)
	if err != nil {
		return nil, err
	}
	planIndex := commissiondomain.NewPlanIndex(plans, levels)

	result := settlement.NewBatchResult(month)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)

		spendings, err := repoTx.ListSpendings(ctx, month.Key())
		if err != nil {
			return err
		}
		for _, spending := range spendings {
			origin := walkOrigin{
				track:       commissiondomain.TrackReader,
				startUserID: spending.UserID,
				novelID:     spending.NovelID,
				base:        spending.AmountUSD,
				referenceID: spending.ID,
				at:          spending.SpendTime,
			}
			if err := s.walk(ctx, repoTx, planIndex, origin, month, result); err != nil {
				return err
			}
		}

		royalties, err := repoTx.ListRoyalties(ctx, month.Key())
		if err != nil {
			return err
		}
		for _, royalty := range royalties {
			origin := walkOrigin{
				track:       commissiondomain.TrackAuthor,
				startUserID: royalty.AuthorID,
				novelID:     royalty.NovelID,
				base:        royalty.AuthorAmountUSD,
				referenceID: royalty.ID,
				at:          royalty.SpendTime,
			}
			if err := s.walk(ctx, repoTx, planIndex, origin, month, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("commissions generated",
		zap.String("month", month.String()),
		zap.Int("generated", result.Generated),
	)
	return result, nil
}

// walk climbs the referral chain from the origin, emitting at most one
// transaction per level. Plan resolution failure at a level skips the
// commission but not the climb; exceeding the resolved plan's max level
// stops it. MaxWalkDepth caps everything so cycles terminate.
func (s *Service) walk(
	ctx context.Context,
	repo commissiondomain.Repository,
	planIndex *commissiondomain.PlanIndex,
	origin walkOrigin,
	month settlement.Month,
	result *settlement.BatchResult,
) error {
	current := origin.startUserID
	for level := 1; level <= commissiondomain.MaxWalkDepth; level++ {
		edge, err := repo.GetReferralEdge(ctx, current)
		if err != nil {
			return err
		}
		if edge == nil {
			return nil
		}

		resolved, ok := planIndex.Resolve(origin.track, edge.PlanIDFor(origin.track), origin.at)
		if !ok {
			current = edge.ReferrerID
			continue
		}
		if level > resolved.Plan.MaxLevel {
			return nil
		}

		if percent := resolved.PercentAt(level); percent.Sign() > 0 {
			txn := commissiondomain.CommissionTransaction{
				ID:                  s.genID.Generate(),
				UserID:              edge.ReferrerID,
				NovelID:             origin.novelID,
				PlanID:              resolved.Plan.ID,
				Level:               level,
				CommissionType:      origin.track,
				BaseAmountUSD:       origin.base,
				CommissionAmountUSD: origin.base.Mul(percent),
				ReferenceID:         origin.referenceID,
				SettlementMonth:     month.Key(),
				CreatedAt:           s.clock.Now(ctx),
			}
			if origin.track == commissiondomain.TrackAuthor {
				txn.SourceAuthorID = &origin.startUserID
			} else {
				txn.SourceUserID = &origin.startUserID
			}
			if err := repo.InsertTransaction(ctx, txn); err != nil {
				return err
			}
			result.Generated++
		}

		current = edge.ReferrerID
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

	deleted, err := s.repo.DeleteMonth(ctx, month.Key())
	if err != nil {
		return 0, err
	}

	s.log.Info("commissions deleted",
		zap.String("month", month.String()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
