package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/discope/booking-service/internal/app/booking/contracts"
)

// StatsRepo implements BookingStats for Spanner.
type StatsRepo struct {
	client *spanner.Client
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(client *spanner.Client) contracts.BookingStats {
	return &StatsRepo{client: client}
}

// CountBookings counts the customer's bookings whose start date falls in
// [since, until]. Quotes, options and cancellations do not count as
// customer history.
func (r *StatsRepo) CountBookings(ctx context.Context, customerID string, since, until time.Time) (int, error) {
	stmt := spanner.Statement{
		SQL: "SELECT COUNT(*) FROM bookings " +
			"WHERE customer_id = @customer_id " +
			"AND date_from >= @since AND date_from <= @until " +
			"AND status NOT IN ('quote', 'option') AND is_cancelled = FALSE",
		Params: map[string]interface{}{
			"customer_id": customerID,
			"since":       since,
			"until":       until,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("failed to parse booking count: %w", err)
	}
	return int(count), nil
}
