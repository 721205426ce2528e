package domain

import (
	"context"

	"github.com/kongfuworld/settlement/internal/settlement"
	"github.com/shopspring/decimal"
)

// DefaultUSDPerKarma applies when no rate row covers an unlock instant.
// The batch warns and proceeds rather than failing the month.
var DefaultUSDPerKarma = decimal.NewFromFloat(0.01)

type Service interface {
	// Generate allocates the month's consumption events into spending
	// rows inside one transaction. Rejected with
	// settlement.ErrAlreadyGenerated when the month has rows.
	Generate(ctx context.Context, monthToken string) (*settlement.BatchResult, error)

	// Delete removes the month's spending rows and allocation ledger
	// entries. Refused with settlement.ErrMonthSettled once any row is
	// settled.
	Delete(ctx context.Context, monthToken string) (int64, error)
}
