//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/repo"
	"github.com/discope/booking-service/tests/testutil"
)

func insertPriceList(t *testing.T, client *spanner.Client, categoryID, status string, dateFrom, dateTo time.Time) string {
	t.Helper()

	listID := uuid.New().String()
	_, err := client.Apply(context.Background(), []*spanner.Mutation{
		spanner.InsertOrUpdate("price_lists",
			[]string{"price_list_id", "category_id", "status", "date_from", "date_to"},
			[]interface{}{listID, categoryID, status, dateFrom, dateTo}),
	})
	require.NoError(t, err)
	return listID
}

func TestPriceCatalogRepository_PriceListsFor(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	catalog := repo.NewPriceCatalogRepo(client)

	date := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	year := insertPriceList(t, client, "center-1", "published",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	season := insertPriceList(t, client, "center-1", "published",
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	// Out of scope: wrong category, not covering the date, still pending.
	insertPriceList(t, client, "center-2", "published",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	insertPriceList(t, client, "center-1", "published",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	pending := insertPriceList(t, client, "center-1", "pending",
		time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))

	lists, err := catalog.PriceListsFor(ctx, "center-1", date, domain.PriceListPublished)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	// The tighter season list is the more specific match and sorts first.
	assert.Equal(t, season, lists[0].ID)
	assert.Equal(t, year, lists[1].ID)

	lists, err = catalog.PriceListsFor(ctx, "center-1", date, domain.PriceListPending)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, pending, lists[0].ID)
}

func TestPriceCatalogRepository_PricesFor(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	catalog := repo.NewPriceCatalogRepo(client)

	fixture := testutil.CreateTestProduct(t, client, testutil.ProductSpec{
		Name:     "Picnic basket",
		Amount:   18,
		VatRate:  0.06,
		CenterID: "center-1",
	})

	prices, err := catalog.PricesFor(ctx, fixture.PriceListID, fixture.ProductID)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, fixture.PriceID, prices[0].ID)
	assert.Equal(t, 18.0, prices[0].Amount)
	assert.Equal(t, 0.06, prices[0].VatRate)
	assert.Empty(t, prices[0].RateClassID)

	prices, err = catalog.PricesFor(ctx, fixture.PriceListID, uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, prices)
}
