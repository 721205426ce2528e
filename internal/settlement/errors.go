package settlement

import "errors"

var (
	// ErrInvalidMonth rejects a missing or malformed YYYY-MM token before
	// any work happens.
	ErrInvalidMonth = errors.New("invalid_month")

	// ErrAlreadyGenerated rejects generation for a month that already has
	// rows. The guard runs before any write.
	ErrAlreadyGenerated = errors.New("already_generated")

	// ErrMonthSettled blocks deletion once downstream accounting has
	// marked any row of the month as settled.
	ErrMonthSettled = errors.New("month_settled")

	// ErrNoSourceRows rejects a dependent stage when its upstream stage
	// has not produced rows for the month yet.
	ErrNoSourceRows = errors.New("no_source_rows")
)
