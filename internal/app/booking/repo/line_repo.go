package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/models/m_activity"
	"github.com/discope/booking-service/internal/models/m_adapter"
	"github.com/discope/booking-service/internal/models/m_line"
	"github.com/discope/booking-service/internal/pkg/clock"
)

// LineRepo implements LineRepository for Spanner. Price adapters and
// booking activities belong to lines and groups and are persisted through
// the same repository.
type LineRepo struct {
	client        *spanner.Client
	model         *m_line.Model
	adapterModel  *m_adapter.Model
	activityModel *m_activity.Model
	clock         clock.Clock
}

// NewLineRepo creates a new LineRepo.
func NewLineRepo(client *spanner.Client, clk clock.Clock) contracts.LineRepository {
	return &LineRepo{
		client:        client,
		model:         m_line.NewModel(),
		adapterModel:  m_adapter.NewModel(),
		activityModel: m_activity.NewModel(),
		clock:         clk,
	}
}

// InsertMut creates a mutation for inserting a new line.
func (r *LineRepo) InsertMut(line *domain.BookingLine) *spanner.Mutation {
	return r.model.InsertMut(r.domainToData(line))
}

// UpdateMut creates a mutation covering the line's dirty fields, or nil
// when nothing changed.
func (r *LineRepo) UpdateMut(line *domain.BookingLine) *spanner.Mutation {
	changes := line.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldProduct) {
		updates[m_line.ProductID] = line.ProductID()
		updates[m_line.ProductModelID] = line.ProductModelID()
	}
	if changes.Dirty(domain.FieldQty) {
		updates[m_line.Qty] = int64(line.Qty())
		updates[m_line.HasOwnQty] = line.HasOwnQty()
	}
	if changes.Dirty(domain.FieldQtyVars) {
		updates[m_line.QtyVars] = line.QtyVars()
	}
	if changes.Dirty(domain.FieldUnitPrice) {
		updates[m_line.UnitPrice] = line.UnitPrice()
	}
	if changes.Dirty(domain.FieldManualUnitPrice) {
		updates[m_line.HasManualUnitPrice] = line.HasManualUnitPrice()
	}
	if changes.Dirty(domain.FieldVatRate) {
		updates[m_line.VatRate] = line.VatRate()
	}
	if changes.Dirty(domain.FieldManualVatRate) {
		updates[m_line.HasManualVatRate] = line.HasManualVatRate()
	}
	if changes.Dirty(domain.FieldPriceID) {
		updates[m_line.PriceID] = spanner.NullString{StringVal: line.PriceID(), Valid: line.PriceID() != ""}
	}
	if changes.Dirty(domain.FieldIsPriceTbc) || changes.Dirty(domain.FieldPriceID) {
		updates[m_line.IsPriceTbc] = line.IsPriceTbc()
	}
	if changes.Dirty(domain.FieldDiscount) {
		updates[m_line.Discount] = line.Discount()
	}
	if changes.Dirty(domain.FieldFreeQty) {
		updates[m_line.FreeQty] = int64(line.FreeQty())
	}
	if changes.Dirty(domain.FieldTotal) {
		updates[m_line.Total] = line.Total()
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_line.Price] = line.Price()
	}
	if changes.Dirty(domain.FieldFareBenefit) {
		updates[m_line.FareBenefit] = line.FareBenefit()
	}
	if changes.Dirty(domain.FieldServiceDate) {
		updates[m_line.ServiceDate] = spanner.NullTime{Time: line.ServiceDate(), Valid: !line.ServiceDate().IsZero()}
	}
	if changes.Dirty(domain.FieldTimeSlot) {
		updates[m_line.TimeSlotID] = spanner.NullString{StringVal: line.TimeSlotID(), Valid: line.TimeSlotID() != ""}
	}
	if changes.Dirty(domain.FieldActivity) {
		updates[m_line.ActivityID] = spanner.NullString{StringVal: line.ActivityID(), Valid: line.ActivityID() != ""}
	}

	if len(updates) == 0 {
		return nil
	}

	return r.model.UpdateMut(line.ID(), updates)
}

// DeleteMut creates a mutation removing the line row.
func (r *LineRepo) DeleteMut(lineID string) *spanner.Mutation {
	return r.model.DeleteMut(lineID)
}

// GetByID retrieves a line by ID, reconstructing the domain entity.
func (r *LineRepo) GetByID(ctx context.Context, lineID string) (*domain.BookingLine, error) {
	row, err := r.client.Single().ReadRow(ctx, m_line.TableName, spanner.Key{lineID}, lineColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to read line: %w", err)
	}

	var data m_line.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse line: %w", err)
	}
	return r.dataToDomain(&data), nil
}

// ListByGroup retrieves the lines of a group ordered by position.
func (r *LineRepo) ListByGroup(ctx context.Context, groupID string) ([]*domain.BookingLine, error) {
	return r.list(ctx, "group_id", groupID)
}

// ListByBooking retrieves every line of a booking ordered by position.
func (r *LineRepo) ListByBooking(ctx context.Context, bookingID string) ([]*domain.BookingLine, error) {
	return r.list(ctx, "booking_id", bookingID)
}

func (r *LineRepo) list(ctx context.Context, column, value string) ([]*domain.BookingLine, error) {
	stmt := spanner.Statement{
		SQL: "SELECT " + lineColumnList() +
			" FROM booking_lines WHERE " + column + " = @value ORDER BY line_order, line_id",
		Params: map[string]interface{}{
			"value": value,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var lines []*domain.BookingLine
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate lines: %w", err)
		}

		var data m_line.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse line: %w", err)
		}
		lines = append(lines, r.dataToDomain(&data))
	}
	return lines, nil
}

// AdaptersByGroup retrieves the price adapters of a group, line-level and
// group-level alike.
func (r *LineRepo) AdaptersByGroup(ctx context.Context, groupID string) ([]domain.PriceAdapter, error) {
	stmt := spanner.Statement{
		SQL: "SELECT adapter_id, booking_id, group_id, line_id, adapter_type, value, " +
			"is_manual_discount, discount_id, origin " +
			"FROM price_adapters WHERE group_id = @group_id ORDER BY adapter_id",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var adapters []domain.PriceAdapter
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate adapters: %w", err)
		}

		var a domain.PriceAdapter
		var lineID, discountID, origin spanner.NullString
		var adapterType string
		if err := row.Columns(&a.ID, &a.BookingID, &a.GroupID, &lineID, &adapterType,
			&a.Value, &a.IsManualDiscount, &discountID, &origin); err != nil {
			return nil, fmt.Errorf("failed to parse adapter: %w", err)
		}
		a.LineID = lineID.StringVal
		a.Type = domain.DiscountType(adapterType)
		a.DiscountID = discountID.StringVal
		a.Origin = origin.StringVal
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// InsertAdapterMut creates a mutation for inserting a price adapter.
func (r *LineRepo) InsertAdapterMut(adapter domain.PriceAdapter) *spanner.Mutation {
	return r.adapterModel.InsertMut(&m_adapter.Data{
		AdapterID:        adapter.ID,
		BookingID:        adapter.BookingID,
		GroupID:          adapter.GroupID,
		LineID:           spanner.NullString{StringVal: adapter.LineID, Valid: adapter.LineID != ""},
		AdapterType:      string(adapter.Type),
		Value:            adapter.Value,
		IsManualDiscount: adapter.IsManualDiscount,
		DiscountID:       spanner.NullString{StringVal: adapter.DiscountID, Valid: adapter.DiscountID != ""},
		Origin:           spanner.NullString{StringVal: adapter.Origin, Valid: adapter.Origin != ""},
	})
}

// DeleteAdapterMut creates a mutation for deleting a price adapter.
func (r *LineRepo) DeleteAdapterMut(adapterID string) *spanner.Mutation {
	return r.adapterModel.DeleteMut(adapterID)
}

// ActivitiesByGroup retrieves the booking activities of a group.
func (r *LineRepo) ActivitiesByGroup(ctx context.Context, groupID string) ([]*domain.BookingActivity, error) {
	stmt := spanner.Statement{
		SQL: "SELECT activity_id, group_id, line_id, product_model_id, activity_date, " +
			"time_slot_id, moment, employee_id, provider_ids, rental_unit_id, " +
			"is_virtual, counter, counter_total " +
			"FROM booking_activities WHERE group_id = @group_id ORDER BY activity_date, activity_id",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var activities []*domain.BookingActivity
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate activities: %w", err)
		}

		a := &domain.BookingActivity{}
		var lineID, timeSlotID, employeeID, rentalUnitID spanner.NullString
		var moment string
		var counter, counterTotal int64
		if err := row.Columns(&a.ID, &a.GroupID, &lineID, &a.ProductModelID, &a.ActivityDate,
			&timeSlotID, &moment, &employeeID, &a.ProviderIDs, &rentalUnitID,
			&a.IsVirtual, &counter, &counterTotal); err != nil {
			return nil, fmt.Errorf("failed to parse activity: %w", err)
		}
		a.LineID = lineID.StringVal
		a.TimeSlotID = timeSlotID.StringVal
		a.Moment = domain.TimeSlotMoment(moment)
		a.EmployeeID = employeeID.StringVal
		a.RentalUnitID = rentalUnitID.StringVal
		a.Counter = int(counter)
		a.CounterTotal = int(counterTotal)
		activities = append(activities, a)
	}
	return activities, nil
}

// UpsertActivityMut creates a mutation writing an activity.
func (r *LineRepo) UpsertActivityMut(activity *domain.BookingActivity) *spanner.Mutation {
	return r.activityModel.UpsertMut(&m_activity.Data{
		ActivityID:     activity.ID,
		GroupID:        activity.GroupID,
		LineID:         spanner.NullString{StringVal: activity.LineID, Valid: activity.LineID != ""},
		ProductModelID: activity.ProductModelID,
		ActivityDate:   activity.ActivityDate,
		TimeSlotID:     spanner.NullString{StringVal: activity.TimeSlotID, Valid: activity.TimeSlotID != ""},
		Moment:         string(activity.Moment),
		EmployeeID:     spanner.NullString{StringVal: activity.EmployeeID, Valid: activity.EmployeeID != ""},
		ProviderIDs:    activity.ProviderIDs,
		RentalUnitID:   spanner.NullString{StringVal: activity.RentalUnitID, Valid: activity.RentalUnitID != ""},
		IsVirtual:      activity.IsVirtual,
		Counter:        int64(activity.Counter),
		CounterTotal:   int64(activity.CounterTotal),
	})
}

// DeleteActivityMut creates a mutation for deleting an activity.
func (r *LineRepo) DeleteActivityMut(activityID string) *spanner.Mutation {
	return r.activityModel.DeleteMut(activityID)
}

func (r *LineRepo) domainToData(line *domain.BookingLine) *m_line.Data {
	return &m_line.Data{
		LineID:             line.ID(),
		BookingID:          line.BookingID(),
		GroupID:            line.GroupID(),
		ProductID:          line.ProductID(),
		ProductModelID:     line.ProductModelID(),
		LineOrder:          int64(line.Order()),
		Qty:                int64(line.Qty()),
		HasOwnQty:          line.HasOwnQty(),
		QtyVars:            line.QtyVars(),
		UnitPrice:          line.UnitPrice(),
		HasManualUnitPrice: line.HasManualUnitPrice(),
		VatRate:            line.VatRate(),
		HasManualVatRate:   line.HasManualVatRate(),
		PriceID:            spanner.NullString{StringVal: line.PriceID(), Valid: line.PriceID() != ""},
		IsPriceTbc:         line.IsPriceTbc(),
		Discount:           line.Discount(),
		FreeQty:            int64(line.FreeQty()),
		Total:              line.Total(),
		Price:              line.Price(),
		FareBenefit:        line.FareBenefit(),
		ServiceDate:        spanner.NullTime{Time: line.ServiceDate(), Valid: !line.ServiceDate().IsZero()},
		TimeSlotID:         spanner.NullString{StringVal: line.TimeSlotID(), Valid: line.TimeSlotID() != ""},
		ActivityID:         spanner.NullString{StringVal: line.ActivityID(), Valid: line.ActivityID() != ""},
		IsAutosale:         line.IsAutosale(),
	}
}

func (r *LineRepo) dataToDomain(data *m_line.Data) *domain.BookingLine {
	return domain.ReconstructBookingLine(
		data.LineID,
		data.BookingID,
		data.GroupID,
		data.ProductID,
		data.ProductModelID,
		int(data.LineOrder),
		int(data.Qty),
		data.HasOwnQty,
		data.QtyVars,
		data.UnitPrice,
		data.HasManualUnitPrice,
		data.VatRate,
		data.HasManualVatRate,
		data.PriceID.StringVal,
		data.IsPriceTbc,
		data.Discount,
		int(data.FreeQty),
		data.Total,
		data.Price,
		data.FareBenefit,
		data.ServiceDate.Time,
		data.TimeSlotID.StringVal,
		data.ActivityID.StringVal,
		data.IsAutosale,
		r.clock,
	)
}

func lineColumns() []string {
	return []string{
		m_line.LineID, m_line.BookingID, m_line.GroupID,
		m_line.ProductID, m_line.ProductModelID, m_line.LineOrder,
		m_line.Qty, m_line.HasOwnQty, m_line.QtyVars,
		m_line.UnitPrice, m_line.HasManualUnitPrice,
		m_line.VatRate, m_line.HasManualVatRate,
		m_line.PriceID, m_line.IsPriceTbc,
		m_line.Discount, m_line.FreeQty,
		m_line.Total, m_line.Price, m_line.FareBenefit,
		m_line.ServiceDate, m_line.TimeSlotID, m_line.ActivityID,
		m_line.IsAutosale, m_line.CreatedAt, m_line.UpdatedAt,
	}
}

func lineColumnList() string {
	return "line_id, booking_id, group_id, product_id, product_model_id, line_order, " +
		"qty, has_own_qty, qty_vars, unit_price, has_manual_unit_price, " +
		"vat_rate, has_manual_vat_rate, price_id, is_price_tbc, " +
		"discount, free_qty, total, price, fare_benefit, " +
		"service_date, time_slot_id, activity_id, is_autosale, created_at, updated_at"
}
