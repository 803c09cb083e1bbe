package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/models/m_booking"
	"github.com/discope/booking-service/internal/pkg/query"
)

// ReadModelImpl implements ReadModel for Spanner, serving the back office
// queries without going through the aggregates.
type ReadModelImpl struct {
	client *spanner.Client
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{client: client}
}

// GetBookingByID retrieves a booking DTO by ID.
func (rm *ReadModelImpl) GetBookingByID(ctx context.Context, bookingID string) (*contracts.BookingDTO, error) {
	row, err := rm.client.Single().ReadRow(ctx, m_booking.TableName, spanner.Key{bookingID}, []string{
		m_booking.BookingID,
		m_booking.Code,
		m_booking.PaymentRef,
		m_booking.CustomerID,
		m_booking.CenterID,
		m_booking.Status,
		m_booking.DateFrom,
		m_booking.DateTo,
		m_booking.Total,
		m_booking.Price,
		m_booking.IsPriceTbc,
		m_booking.IsLocked,
		m_booking.CreatedAt,
		m_booking.UpdatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking: %w", err)
	}

	dto := &contracts.BookingDTO{}
	var dateFrom, dateTo spanner.NullTime
	if err := row.Columns(&dto.BookingID, &dto.Code, &dto.PaymentRef,
		&dto.CustomerID, &dto.CenterID, &dto.Status,
		&dateFrom, &dateTo, &dto.Total, &dto.Price,
		&dto.IsPriceTbc, &dto.IsLocked,
		&dto.CreatedAt, &dto.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse booking: %w", err)
	}
	dto.DateFrom = dateFrom.Time
	dto.DateTo = dateTo.Time
	dto.DisplayRef = domain.FormatPaymentReference(dto.PaymentRef)

	if err := rm.attachAggregates(ctx, dto); err != nil {
		return nil, err
	}
	return dto, nil
}

// ListBookings retrieves bookings of a center filtered by status.
func (rm *ReadModelImpl) ListBookings(ctx context.Context, filter *contracts.ListFilter) ([]*contracts.BookingDTO, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	builder := query.From(m_booking.TableName).
		Select(m_booking.BookingID, m_booking.Code, m_booking.PaymentRef,
			m_booking.CustomerID, m_booking.CenterID, m_booking.Status,
			m_booking.DateFrom, m_booking.DateTo, m_booking.Total, m_booking.Price,
			m_booking.IsPriceTbc, m_booking.IsLocked,
			m_booking.CreatedAt, m_booking.UpdatedAt).
		OrderBy(m_booking.CreatedAt, query.Desc).
		Limit(int64(pageSize))

	if filter.CenterID != "" {
		builder = builder.Where(query.Eq(m_booking.CenterID, filter.CenterID))
	}
	if filter.Status != "" {
		builder = builder.Where(query.Eq(m_booking.Status, filter.Status))
	}

	iter := rm.client.Single().Query(ctx, builder.Build())
	defer iter.Stop()

	bookings := make([]*contracts.BookingDTO, 0, pageSize)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate bookings: %w", err)
		}

		dto := &contracts.BookingDTO{}
		var dateFrom, dateTo spanner.NullTime
		if err := row.Columns(&dto.BookingID, &dto.Code, &dto.PaymentRef,
			&dto.CustomerID, &dto.CenterID, &dto.Status,
			&dateFrom, &dateTo, &dto.Total, &dto.Price,
			&dto.IsPriceTbc, &dto.IsLocked,
			&dto.CreatedAt, &dto.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse booking: %w", err)
		}
		dto.DateFrom = dateFrom.Time
		dto.DateTo = dateTo.Time
		dto.DisplayRef = domain.FormatPaymentReference(dto.PaymentRef)
		bookings = append(bookings, dto)
	}
	return bookings, nil
}

// ListGroups retrieves the groups of a booking.
func (rm *ReadModelImpl) ListGroups(ctx context.Context, bookingID string) ([]*contracts.GroupDTO, error) {
	stmt := spanner.Statement{
		SQL: "SELECT group_id, name, group_type, date_from, date_to, " +
			"nb_pers, nb_children, total, price, fare_benefit " +
			"FROM booking_line_groups WHERE booking_id = @booking_id ORDER BY date_from, group_id",
		Params: map[string]interface{}{
			"booking_id": bookingID,
		},
	}

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var groups []*contracts.GroupDTO
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate groups: %w", err)
		}

		dto := &contracts.GroupDTO{}
		var nbPers, nbChildren int64
		if err := row.Columns(&dto.GroupID, &dto.Name, &dto.GroupType,
			&dto.DateFrom, &dto.DateTo, &nbPers, &nbChildren,
			&dto.Total, &dto.Price, &dto.FareBenefit); err != nil {
			return nil, fmt.Errorf("failed to parse group: %w", err)
		}
		dto.NbPers = int(nbPers)
		dto.NbChildren = int(nbChildren)
		groups = append(groups, dto)
	}
	return groups, nil
}

// ListConsumptions retrieves the planning entries of a booking in
// chronological order.
func (rm *ReadModelImpl) ListConsumptions(ctx context.Context, bookingID string) ([]*contracts.ConsumptionDTO, error) {
	stmt := spanner.Statement{
		SQL: "SELECT consumption_id, booking_id, group_id, consumption_type, " +
			"consumption_date, schedule_from, schedule_to, " +
			"rental_unit_id, product_id, qty, description " +
			"FROM consumptions WHERE booking_id = @booking_id " +
			"ORDER BY consumption_date, schedule_from, consumption_id",
		Params: map[string]interface{}{
			"booking_id": bookingID,
		},
	}

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var consumptions []*contracts.ConsumptionDTO
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate consumptions: %w", err)
		}

		dto := &contracts.ConsumptionDTO{}
		var rentalUnitID, productID, description spanner.NullString
		var scheduleFrom, scheduleTo, qty int64
		if err := row.Columns(&dto.ConsumptionID, &dto.BookingID, &dto.GroupID, &dto.Type,
			&dto.Date, &scheduleFrom, &scheduleTo,
			&rentalUnitID, &productID, &qty, &description); err != nil {
			return nil, fmt.Errorf("failed to parse consumption: %w", err)
		}
		dto.ScheduleFrom = domain.TimeOfDay(scheduleFrom).String()
		dto.ScheduleTo = domain.TimeOfDay(scheduleTo).String()
		dto.RentalUnitID = rentalUnitID.StringVal
		dto.ProductID = productID.StringVal
		dto.Qty = int(qty)
		dto.Description = description.StringVal
		consumptions = append(consumptions, dto)
	}
	return consumptions, nil
}

func (rm *ReadModelImpl) attachAggregates(ctx context.Context, dto *contracts.BookingDTO) error {
	stmt := spanner.Statement{
		SQL: "SELECT COUNT(*), COALESCE(SUM(nb_pers), 0) " +
			"FROM booking_line_groups WHERE booking_id = @booking_id",
		Params: map[string]interface{}{
			"booking_id": dto.BookingID,
		},
	}

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return fmt.Errorf("failed to aggregate groups: %w", err)
	}

	var groupCount, nbPers int64
	if err := row.Columns(&groupCount, &nbPers); err != nil {
		return fmt.Errorf("failed to parse group aggregates: %w", err)
	}
	dto.GroupCount = int(groupCount)
	dto.NbPers = int(nbPers)
	return nil
}
