package testutil

import (
	"context"
	"fmt"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
)

// SetupSpannerTest creates a test Spanner client and returns a cleanup function.
func SetupSpannerTest(t *testing.T) (*spanner.Client, func()) {
	t.Helper()

	ctx := context.Background()
	spannerDB := GetTestSpannerDB()

	client, err := spanner.NewClient(ctx, spannerDB)
	require.NoError(t, err, "failed to create Spanner client")

	// Clean database before test
	CleanDatabase(t, client)

	cleanup := func() {
		CleanDatabase(t, client)
		client.Close()
	}

	return client, cleanup
}

// GetTestSpannerDB returns the test Spanner database string.
func GetTestSpannerDB() string {
	// Use environment variable or default
	db := "projects/discope/instances/test-instance/databases/booking-test"
	return db
}

// CleanDatabase truncates all tables for test isolation. Deleting the
// bookings takes the owned child tables with it through the cascading
// foreign keys; groups cascade the rest.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	ctx := context.Background()

	mutations := []*spanner.Mutation{
		spanner.Delete("outbox_events", spanner.AllKeys()),
		spanner.Delete("scheduled_tasks", spanner.AllKeys()),
		spanner.Delete("bookings", spanner.AllKeys()),
		spanner.Delete("products", spanner.AllKeys()),
		spanner.Delete("product_models", spanner.AllKeys()),
		spanner.Delete("pack_lines", spanner.AllKeys()),
		spanner.Delete("age_ranges", spanner.AllKeys()),
		spanner.Delete("time_slots", spanner.AllKeys()),
		spanner.Delete("price_lists", spanner.AllKeys()),
		spanner.Delete("prices", spanner.AllKeys()),
		spanner.Delete("discount_lists", spanner.AllKeys()),
		spanner.Delete("discounts", spanner.AllKeys()),
		spanner.Delete("autosale_lists", spanner.AllKeys()),
		spanner.Delete("autosales", spanner.AllKeys()),
		spanner.Delete("season_periods", spanner.AllKeys()),
		spanner.Delete("rental_units", spanner.AllKeys()),
		spanner.Delete("settings", spanner.AllKeys()),
		spanner.Delete("center_office_preferences", spanner.AllKeys()),
	}

	_, err := client.Apply(ctx, mutations)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	ctx := context.Background()
	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	err = row.Columns(&count)
	require.NoError(t, err, "failed to parse count")

	require.Equal(t, int64(expectedCount), count, "unexpected row count in table %s", table)
}
