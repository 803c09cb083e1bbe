package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// RentalUnitRepo implements RentalUnitCatalog for Spanner.
type RentalUnitRepo struct {
	client *spanner.Client
}

// NewRentalUnitRepo creates a new RentalUnitRepo.
func NewRentalUnitRepo(client *spanner.Client) contracts.RentalUnitCatalog {
	return &RentalUnitRepo{client: client}
}

const rentalUnitColumns = "rental_unit_id, center_id, name, capacity, " +
	"is_accommodation, category_id, parent_id, children_ids, can_partial_rent"

// UnitsAt returns every rental unit of a center, optionally filtered by
// accommodation flag and category.
func (r *RentalUnitRepo) UnitsAt(ctx context.Context, centerID string, onlyAccommodation bool, categoryID string) ([]domain.RentalUnit, error) {
	sql := "SELECT " + rentalUnitColumns + " FROM rental_units WHERE center_id = @center_id"
	params := map[string]interface{}{
		"center_id": centerID,
	}
	if onlyAccommodation {
		sql += " AND is_accommodation = TRUE"
	}
	if categoryID != "" {
		sql += " AND category_id = @category_id"
		params["category_id"] = categoryID
	}
	sql += " ORDER BY rental_unit_id"

	iter := r.client.Single().Query(ctx, spanner.Statement{SQL: sql, Params: params})
	defer iter.Stop()

	var units []domain.RentalUnit
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rental units: %w", err)
		}

		unit, err := scanRentalUnit(row)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// Unit returns one rental unit by id.
func (r *RentalUnitRepo) Unit(ctx context.Context, unitID string) (*domain.RentalUnit, error) {
	row, err := r.client.Single().ReadRow(ctx, "rental_units", spanner.Key{unitID}, []string{
		"rental_unit_id", "center_id", "name", "capacity",
		"is_accommodation", "category_id", "parent_id", "children_ids", "can_partial_rent",
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read rental unit: %w", err)
	}

	unit, err := scanRentalUnit(row)
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// BookedPeriods returns the occupied spans of the center's units
// intersecting [from, to). Occupancy comes from the accommodation
// consumptions of every non-cancelled booking of the center. Advisory
// 'part' entries flag a partially rented parent without occupying it,
// so they do not count.
func (r *RentalUnitRepo) BookedPeriods(ctx context.Context, centerID string, from, to time.Time) ([]domain.BookedPeriod, error) {
	stmt := spanner.Statement{
		SQL: "SELECT c.rental_unit_id, " +
			"MIN(TIMESTAMP_ADD(c.consumption_date, INTERVAL c.schedule_from SECOND)), " +
			"MAX(TIMESTAMP_ADD(c.consumption_date, INTERVAL c.schedule_to SECOND)) " +
			"FROM consumptions c " +
			"JOIN bookings b ON b.booking_id = c.booking_id " +
			"WHERE c.center_id = @center_id AND c.rental_unit_id IS NOT NULL " +
			"AND b.is_cancelled = FALSE AND c.consumption_type != 'part' " +
			"AND c.consumption_date < @to AND c.consumption_date >= TIMESTAMP_SUB(@from, INTERVAL 1 DAY) " +
			"GROUP BY c.rental_unit_id, c.booking_id",
		Params: map[string]interface{}{
			"center_id": centerID,
			"from":      from,
			"to":        to,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var periods []domain.BookedPeriod
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate booked periods: %w", err)
		}

		var p domain.BookedPeriod
		var unitID spanner.NullString
		if err := row.Columns(&unitID, &p.From, &p.To); err != nil {
			return nil, fmt.Errorf("failed to parse booked period: %w", err)
		}
		p.RentalUnitID = unitID.StringVal
		periods = append(periods, p)
	}
	return periods, nil
}

func scanRentalUnit(row *spanner.Row) (domain.RentalUnit, error) {
	var u domain.RentalUnit
	var capacity int64
	var categoryID, parentID spanner.NullString
	if err := row.Columns(&u.ID, &u.CenterID, &u.Name, &capacity,
		&u.IsAccommodation, &categoryID, &parentID, &u.ChildrenIDs, &u.CanPartialRent); err != nil {
		return u, fmt.Errorf("failed to parse rental unit: %w", err)
	}
	u.Capacity = int(capacity)
	u.CategoryID = categoryID.StringVal
	u.ParentID = parentID.StringVal
	return u, nil
}
