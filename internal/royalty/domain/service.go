package domain

import (
	"context"

	"github.com/kongfuworld/settlement/internal/settlement"
	"github.com/shopspring/decimal"
)

// FallbackRoyaltyPercent applies when neither a contract nor a default plan
// resolves.
var FallbackRoyaltyPercent = decimal.NewFromFloat(0.5)

type Service interface {
	Generate(ctx context.Context, monthToken string) (*settlement.BatchResult, error)
	Delete(ctx context.Context, monthToken string) (int64, error)
}
