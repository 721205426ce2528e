package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// EditorShare is one editor's computed slice of a distribution.
type EditorShare struct {
	EditorAdminID int64           `json:"editor_admin_id"`
	Role          EditorRole      `json:"role"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
}

// NovelDistribution summarizes one novel's run.
type NovelDistribution struct {
	NovelID        int64           `json:"novel_id"`
	Month          string          `json:"month"`
	ChampionIncome decimal.Decimal `json:"champion_income_usd"`
	ChiefPool      decimal.Decimal `json:"chief_pool_usd"`
	EditorPool     decimal.Decimal `json:"editor_pool_usd"`
	Shares         []EditorShare   `json:"shares"`
	Warnings       []string        `json:"warnings,omitempty"`
	Distributed    bool            `json:"distributed"`
}

// BatchDistribution collects per-novel outcomes; one novel's failure does
// not undo the others.
type BatchDistribution struct {
	Month   string              `json:"month"`
	Results []NovelDistribution `json:"results"`
	Failed  map[int64]string    `json:"failed,omitempty"`
}

type Service interface {
	// DistributeNovel splits one novel's champion income for the month
	// into its editor ledger rows, in one transaction.
	DistributeNovel(ctx context.Context, novelID int64, monthToken string) (*NovelDistribution, error)

	// Distribute runs DistributeNovel sequentially for each novel,
	// committing each independently.
	Distribute(ctx context.Context, novelIDs []int64, monthToken string) (*BatchDistribution, error)
}
