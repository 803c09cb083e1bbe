package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// PriceCatalogRepo implements PriceCatalog for Spanner.
type PriceCatalogRepo struct {
	client *spanner.Client
}

// NewPriceCatalogRepo creates a new PriceCatalogRepo.
func NewPriceCatalogRepo(client *spanner.Client) contracts.PriceCatalog {
	return &PriceCatalogRepo{client: client}
}

// PriceListsFor returns the lists of a category covering the date with the
// given publication status. Shorter lists are more specific and come
// first.
func (r *PriceCatalogRepo) PriceListsFor(ctx context.Context, categoryID string, date time.Time, status domain.PriceListStatus) ([]domain.PriceList, error) {
	stmt := spanner.Statement{
		SQL: "SELECT price_list_id, category_id, status, date_from, date_to " +
			"FROM price_lists " +
			"WHERE category_id = @category_id AND status = @status " +
			"AND date_from <= @date AND date_to >= @date " +
			"ORDER BY TIMESTAMP_DIFF(date_to, date_from, DAY), price_list_id",
		Params: map[string]interface{}{
			"category_id": categoryID,
			"status":      string(status),
			"date":        date,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var lists []domain.PriceList
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price lists: %w", err)
		}

		var pl domain.PriceList
		var listStatus string
		if err := row.Columns(&pl.ID, &pl.CategoryID, &listStatus, &pl.DateFrom, &pl.DateTo); err != nil {
			return nil, fmt.Errorf("failed to parse price list: %w", err)
		}
		pl.Status = domain.PriceListStatus(listStatus)
		lists = append(lists, pl)
	}
	return lists, nil
}

// PricesFor returns the prices of one list for one product.
func (r *PriceCatalogRepo) PricesFor(ctx context.Context, priceListID, productID string) ([]domain.Price, error) {
	stmt := spanner.Statement{
		SQL: "SELECT price_id, price_list_id, product_id, rate_class_id, amount, vat_rate " +
			"FROM prices WHERE price_list_id = @price_list_id AND product_id = @product_id " +
			"ORDER BY price_id",
		Params: map[string]interface{}{
			"price_list_id": priceListID,
			"product_id":    productID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var prices []domain.Price
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate prices: %w", err)
		}

		var p domain.Price
		var rateClassID spanner.NullString
		if err := row.Columns(&p.ID, &p.PriceListID, &p.ProductID, &rateClassID, &p.Amount, &p.VatRate); err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		p.RateClassID = rateClassID.StringVal
		prices = append(prices, p)
	}
	return prices, nil
}
