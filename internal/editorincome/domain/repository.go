package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// ChampionIncome returns the novel's champion income for the month;
	// zero when absent.
	ChampionIncome(ctx context.Context, novelID int64, month time.Time) (decimal.Decimal, error)
	ListActiveContracts(ctx context.Context, novelID int64) ([]NovelEditorContract, error)
	// EditorWordCounts aggregates released word counts per attributed
	// editor for the novel.
	EditorWordCounts(ctx context.Context, novelID int64) ([]EditorWordCount, error)

	// AccumulateIncome upserts the ledger row, adding to existing totals
	// on conflict.
	AccumulateIncome(ctx context.Context, record EditorIncomeRecord) error
}
