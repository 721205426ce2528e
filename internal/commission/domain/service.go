package domain

import (
	"context"

	"github.com/kongfuworld/settlement/internal/settlement"
)

// MaxWalkDepth bounds every walk regardless of plan max levels, so a
// malformed cyclic referral graph cannot loop.
const MaxWalkDepth = 10

type Service interface {
	Generate(ctx context.Context, monthToken string) (*settlement.BatchResult, error)
	Delete(ctx context.Context, monthToken string) (int64, error)
}
