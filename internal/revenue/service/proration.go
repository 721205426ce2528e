package service

import (
	"context"
	"fmt"
	"time"

	revenuedomain "github.com/kongfuworld/settlement/internal/revenue/domain"
	"github.com/kongfuworld/settlement/internal/settlement"
	"github.com/shopspring/decimal"
)

// monthShare is one month's slice of a subscription payment.
type monthShare struct {
	Days      int
	Amount    decimal.Decimal
	SpendTime time.Time
}

func karmaToUSD(karma int64, usdPerKarma decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(karma).Mul(usdPerKarma)
}

// prorateSubscription computes the target month's share of one subscription
// payment. A non-empty skip reason means no row should be written. The
// final overlapped month takes whatever days and amount the earlier months
// left so that the totals conserve exactly, whatever rounding the ratio
// months introduced.
func (s *Service) prorateSubscription(
	ctx context.Context,
	repo revenuedomain.Repository,
	sub revenuedomain.ChampionSubscription,
	month settlement.Month,
	result *settlement.BatchResult,
) (monthShare, string, error) {
	serviceStart := settlement.DateOnly(sub.StartDate)
	serviceEnd := settlement.DateOnly(sub.EndDate)

	totalDays := settlement.DaysBetween(serviceStart, serviceEnd)
	if totalDays <= 0 {
		return monthShare{}, fmt.Sprintf("subscription %d: empty service window", sub.ID), nil
	}

	if sub.SubscriptionDurationDays > 0 && sub.SubscriptionDurationDays != totalDays {
		result.Warn(fmt.Sprintf("subscription %d: nominal duration %d days, window has %d; using window",
			sub.ID, sub.SubscriptionDurationDays, totalDays))
	}

	overlapDays := settlement.OverlapDays(serviceStart, serviceEnd, month.Start(), month.End())
	if overlapDays <= 0 {
		return monthShare{}, fmt.Sprintf("subscription %d: no overlap with %s", sub.ID, month), nil
	}

	exists, err := repo.HasSubscriptionRecord(ctx, sub.ID, month.Key())
	if err != nil {
		return monthShare{}, "", err
	}
	if exists {
		return monthShare{}, fmt.Sprintf("subscription %d: already allocated for %s", sub.ID, month), nil
	}

	share := monthShare{
		Days:      overlapDays,
		SpendTime: settlement.MaxTime(serviceStart, month.Start()),
	}

	// The last day of service sits in serviceEnd-1 because the window end
	// is exclusive.
	lastMonth := settlement.MonthOf(serviceEnd.AddDate(0, 0, -1))
	if month.Equal(lastMonth) {
		allocated, err := repo.AllocatedBefore(ctx, sub.ID, month.Key())
		if err != nil {
			return monthShare{}, "", err
		}
		// The catch-up only closes the window once every earlier month is
		// in the ledger. Generated out of order, the final month takes its
		// ratio share like any other month; handing it the full remainder
		// here would double-count the earlier months when they run later.
		if allocated.Days == totalDays-overlapDays {
			share.Days = totalDays - allocated.Days
			share.Amount = sub.PaymentAmount.Sub(allocated.Amount)
			if share.Days <= 0 || share.Amount.Sign() <= 0 {
				return monthShare{}, fmt.Sprintf("subscription %d: fully allocated before %s", sub.ID, month), nil
			}
			return share, "", nil
		}
		result.Warn(fmt.Sprintf("subscription %d: final month %s generated before %d earlier day(s), ratio share applied",
			sub.ID, month, totalDays-overlapDays-allocated.Days))
	}

	share.Amount = sub.PaymentAmount.
		Mul(decimal.NewFromInt(int64(overlapDays))).
		Div(decimal.NewFromInt(int64(totalDays)))
	return share, "", nil
}
