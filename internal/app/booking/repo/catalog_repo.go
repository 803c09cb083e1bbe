package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// CatalogRepo implements Catalog for Spanner. The catalog tables are
// maintained by the host system; this side only reads them.
type CatalogRepo struct {
	client *spanner.Client
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(client *spanner.Client) contracts.Catalog {
	return &CatalogRepo{client: client}
}

// Product returns a product by id.
func (r *CatalogRepo) Product(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, "products", spanner.Key{productID}, []string{
		"product_id", "sku", "name", "product_model_id",
		"is_pack", "has_own_price", "has_age_range", "age_range_id",
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUnknownProduct
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	p := &domain.Product{}
	var ageRangeID spanner.NullString
	if err := row.Columns(&p.ID, &p.SKU, &p.Name, &p.ProductModelID,
		&p.IsPack, &p.HasOwnPrice, &p.HasAgeRange, &ageRangeID); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	p.AgeRangeID = ageRangeID.StringVal

	if p.IsPack {
		lines, err := r.PackLines(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.PackLines = lines
	}
	return p, nil
}

// ProductModel returns the model a product is bound to.
func (r *CatalogRepo) ProductModel(ctx context.Context, productModelID string) (*domain.ProductModel, error) {
	row, err := r.client.Single().ReadRow(ctx, "product_models", spanner.Key{productModelID}, []string{
		"product_model_id", "name", "accounting_method",
		"is_repeatable", "is_accommodation", "is_rental_unit", "is_meal", "is_snack",
		"is_activity", "is_full_day", "is_transport", "is_supply", "is_schedulable",
		"capacity", "has_duration", "duration",
		"schedule_offset", "schedule_from", "schedule_to",
		"rental_unit_category_id",
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read product model: %w", err)
	}

	pm := &domain.ProductModel{}
	var method string
	var capacity, duration, scheduleOffset, scheduleFrom, scheduleTo int64
	var categoryID spanner.NullString
	if err := row.Columns(&pm.ID, &pm.Name, &method,
		&pm.IsRepeatable, &pm.IsAccommodation, &pm.IsRentalUnit, &pm.IsMeal, &pm.IsSnack,
		&pm.IsActivity, &pm.IsFullDay, &pm.IsTransport, &pm.IsSupply, &pm.IsSchedulable,
		&capacity, &pm.HasDuration, &duration,
		&scheduleOffset, &scheduleFrom, &scheduleTo,
		&categoryID); err != nil {
		return nil, fmt.Errorf("failed to parse product model: %w", err)
	}
	pm.AccountingMethod = domain.AccountingMethod(method)
	pm.Capacity = int(capacity)
	pm.Duration = int(duration)
	pm.ScheduleOffset = int(scheduleOffset)
	pm.ScheduleFrom = domain.TimeOfDay(scheduleFrom)
	pm.ScheduleTo = domain.TimeOfDay(scheduleTo)
	pm.RentalUnitCategoryID = categoryID.StringVal
	return pm, nil
}

// PackLines returns the components of a bundled product.
func (r *CatalogRepo) PackLines(ctx context.Context, packProductID string) ([]domain.PackLine, error) {
	stmt := spanner.Statement{
		SQL: "SELECT child_product_id, has_own_qty, own_qty, share_of_price " +
			"FROM pack_lines WHERE pack_product_id = @pack_product_id ORDER BY child_product_id",
		Params: map[string]interface{}{
			"pack_product_id": packProductID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var lines []domain.PackLine
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate pack lines: %w", err)
		}

		var pl domain.PackLine
		var ownQty int64
		if err := row.Columns(&pl.ChildProductID, &pl.HasOwnQty, &ownQty, &pl.ShareOfPrice); err != nil {
			return nil, fmt.Errorf("failed to parse pack line: %w", err)
		}
		pl.OwnQty = int(ownQty)
		lines = append(lines, pl)
	}
	return lines, nil
}

// AgeRange returns an age bracket definition.
func (r *CatalogRepo) AgeRange(ctx context.Context, ageRangeID string) (*domain.AgeRange, error) {
	row, err := r.client.Single().ReadRow(ctx, "age_ranges", spanner.Key{ageRangeID}, []string{
		"age_range_id", "name", "age_from", "age_to", "is_children",
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read age range: %w", err)
	}

	ar := &domain.AgeRange{}
	var from, to int64
	if err := row.Columns(&ar.ID, &ar.Name, &from, &to, &ar.IsChildren); err != nil {
		return nil, fmt.Errorf("failed to parse age range: %w", err)
	}
	ar.AgeFrom = int(from)
	ar.AgeTo = int(to)
	return ar, nil
}

// TimeSlot returns a configured schedule window.
func (r *CatalogRepo) TimeSlot(ctx context.Context, timeSlotID string) (*domain.TimeSlot, error) {
	row, err := r.client.Single().ReadRow(ctx, "time_slots", spanner.Key{timeSlotID}, []string{
		"time_slot_id", "moment", "name", "slot_order", "time_from", "time_to",
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read time slot: %w", err)
	}

	ts, err := scanTimeSlot(row)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// TimeSlots returns all configured schedule windows keyed by id.
func (r *CatalogRepo) TimeSlots(ctx context.Context) (map[string]domain.TimeSlot, error) {
	stmt := spanner.Statement{
		SQL: "SELECT time_slot_id, moment, name, slot_order, time_from, time_to FROM time_slots",
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	slots := make(map[string]domain.TimeSlot)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate time slots: %w", err)
		}

		ts, err := scanTimeSlot(row)
		if err != nil {
			return nil, err
		}
		slots[ts.ID] = ts
	}
	return slots, nil
}

func scanTimeSlot(row *spanner.Row) (domain.TimeSlot, error) {
	var ts domain.TimeSlot
	var moment string
	var order, from, to int64
	if err := row.Columns(&ts.ID, &moment, &ts.Name, &order, &from, &to); err != nil {
		return ts, fmt.Errorf("failed to parse time slot: %w", err)
	}
	ts.Moment = domain.TimeSlotMoment(moment)
	ts.Order = int(order)
	ts.From = domain.TimeOfDay(from)
	ts.To = domain.TimeOfDay(to)
	return ts, nil
}
