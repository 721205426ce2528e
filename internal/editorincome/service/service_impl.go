package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/kongfuworld/settlement/internal/clock"
	editorincomedomain "github.com/kongfuworld/settlement/internal/editorincome/domain"
	"github.com/kongfuworld/settlement/internal/editorincome/repository"
	"github.com/kongfuworld/settlement/internal/settlement"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  editorincomedomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) editorincomedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("editorincome.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) DistributeNovel(ctx context.Context, novelID int64, monthToken string) (*editorincomedomain.NovelDistribution, error) {
	month, err := settlement.ParseMonth(monthToken)
	if err != nil {
		return nil, err
	}

	dist := &editorincomedomain.NovelDistribution{
		NovelID: novelID,
		Month:   month.String(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)

		income, err := repoTx.ChampionIncome(ctx, novelID, month.Key())
		if err != nil {
			return err
		}
		dist.ChampionIncome = income
		if income.Sign() <= 0 {
			return nil
		}

		contracts, err := repoTx.ListActiveContracts(ctx, novelID)
		if err != nil {
			return err
		}

		var chiefContracts []editorincomedomain.NovelEditorContract
		chiefPercent := decimal.Zero
		editorPercent := decimal.Zero
		for _, contract := range contracts {
			switch contract.Role {
			case editorincomedomain.RoleChiefEditor:
				chiefPercent = chiefPercent.Add(contract.SharePercent)
				chiefContracts = append(chiefContracts, contract)
			case editorincomedomain.RoleEditor:
				editorPercent = editorPercent.Add(contract.SharePercent)
			}
		}

		dist.ChiefPool = income.Mul(chiefPercent).Div(hundred)
		dist.EditorPool = income.Mul(editorPercent).Div(hundred)

		if err := s.splitEditorPool(ctx, repoTx, novelID, month, income, dist); err != nil {
			return err
		}
		if err := s.splitChiefPool(ctx, repoTx, chiefContracts, chiefPercent, month, income, dist); err != nil {
			return err
		}

		dist.Distributed = len(dist.Shares) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("editor income distributed",
		zap.Int64("novel_id", novelID),
		zap.String("month", month.String()),
		zap.String("champion_income", dist.ChampionIncome.String()),
		zap.Int("shares", len(dist.Shares)),
	)
	return dist, nil
}

// splitEditorPool divides the editor pool proportionally to each editor's
// released word contribution. A funded pool with no attributed words stays
// unassigned; picking an editor arbitrarily would be worse than holding it.
func (s *Service) splitEditorPool(
	ctx context.Context,
	repo editorincomedomain.Repository,
	novelID int64,
	month settlement.Month,
	income decimal.Decimal,
	dist *editorincomedomain.NovelDistribution,
) error {
	if dist.EditorPool.Sign() <= 0 {
		return nil
	}

	wordCounts, err := repo.EditorWordCounts(ctx, novelID)
	if err != nil {
		return err
	}
	var totalWords int64
	for _, wc := range wordCounts {
		totalWords += wc.TotalWords
	}
	if totalWords == 0 {
		dist.Warnings = append(dist.Warnings,
			fmt.Sprintf("novel %d: editor pool %s has no attributed word count, left unassigned",
				novelID, dist.EditorPool.String()))
		return nil
	}

	totalWordsD := decimal.NewFromInt(totalWords)
	for _, wc := range wordCounts {
		amount := dist.EditorPool.Mul(decimal.NewFromInt(wc.TotalWords)).Div(totalWordsD)
		if amount.Sign() <= 0 {
			continue
		}
		if err := s.credit(ctx, repo, wc.EditorAdminID, novelID, month, income, amount); err != nil {
			return err
		}
		dist.Shares = append(dist.Shares, editorincomedomain.EditorShare{
			EditorAdminID: wc.EditorAdminID,
			Role:          editorincomedomain.RoleEditor,
			AmountUSD:     amount,
		})
	}
	return nil
}

// splitChiefPool divides the chief pool across chief contracts by each
// contract's own percent over the chief percent sum.
func (s *Service) splitChiefPool(
	ctx context.Context,
	repo editorincomedomain.Repository,
	chiefContracts []editorincomedomain.NovelEditorContract,
	chiefPercent decimal.Decimal,
	month settlement.Month,
	income decimal.Decimal,
	dist *editorincomedomain.NovelDistribution,
) error {
	if dist.ChiefPool.Sign() <= 0 || len(chiefContracts) == 0 || chiefPercent.Sign() <= 0 {
		return nil
	}

	for _, contract := range chiefContracts {
		amount := dist.ChiefPool.Mul(contract.SharePercent).Div(chiefPercent)
		if amount.Sign() <= 0 {
			continue
		}
		if err := s.credit(ctx, repo, contract.EditorAdminID, contract.NovelID, month, income, amount); err != nil {
			return err
		}
		dist.Shares = append(dist.Shares, editorincomedomain.EditorShare{
			EditorAdminID: contract.EditorAdminID,
			Role:          editorincomedomain.RoleChiefEditor,
			AmountUSD:     amount,
		})
	}
	return nil
}

func (s *Service) credit(
	ctx context.Context,
	repo editorincomedomain.Repository,
	editorID, novelID int64,
	month settlement.Month,
	gross, amount decimal.Decimal,
) error {
	return repo.AccumulateIncome(ctx, editorincomedomain.EditorIncomeRecord{
		ID:                 s.genID.Generate(),
		EditorAdminID:      editorID,
		NovelID:            novelID,
		Month:              month.Key(),
		GrossBookIncomeUSD: gross,
		EditorIncomeUSD:    amount,
		UpdatedAt:          s.clock.Now(ctx),
	})
}

func (s *Service) Distribute(ctx context.Context, novelIDs []int64, monthToken string) (*editorincomedomain.BatchDistribution, error) {
	month, err := settlement.ParseMonth(monthToken)
	if err != nil {
		return nil, err
	}

	batch := &editorincomedomain.BatchDistribution{Month: month.String()}
	for _, novelID := range novelIDs {
		dist, err := s.DistributeNovel(ctx, novelID, monthToken)
		if err != nil {
			if batch.Failed == nil {
				batch.Failed = make(map[int64]string)
			}
			batch.Failed[novelID] = err.Error()
			s.log.Warn("novel distribution failed",
				zap.Int64("novel_id", novelID),
				zap.Error(err),
			)
			continue
		}
		batch.Results = append(batch.Results, *dist)
	}
	return batch, nil
}
