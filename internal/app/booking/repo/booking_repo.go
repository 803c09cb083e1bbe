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
	"github.com/discope/booking-service/internal/pkg/clock"
)

// BookingRepo implements BookingRepository for Spanner.
type BookingRepo struct {
	client *spanner.Client
	model  *m_booking.Model
	clock  clock.Clock
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(client *spanner.Client, clk clock.Clock) contracts.BookingRepository {
	return &BookingRepo{
		client: client,
		model:  m_booking.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new booking.
func (r *BookingRepo) InsertMut(booking *domain.Booking) *spanner.Mutation {
	return r.model.InsertMut(r.domainToData(booking))
}

// UpdateMut creates a mutation covering the booking's dirty fields, or nil
// when nothing changed. The version column is bumped by the model so the
// committer's version check catches concurrent writers.
func (r *BookingRepo) UpdateMut(booking *domain.Booking, version int64) *spanner.Mutation {
	changes := booking.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldStatus) {
		updates[m_booking.Status] = string(booking.Status())
		updates[m_booking.IsCancelled] = booking.IsCancelled()
	}
	if changes.Dirty(domain.FieldCustomer) {
		updates[m_booking.CustomerID] = booking.CustomerID()
	}
	if changes.Dirty(domain.FieldDateFrom) {
		updates[m_booking.DateFrom] = spanner.NullTime{Time: booking.DateFrom(), Valid: !booking.DateFrom().IsZero()}
	}
	if changes.Dirty(domain.FieldDateTo) {
		updates[m_booking.DateTo] = spanner.NullTime{Time: booking.DateTo(), Valid: !booking.DateTo().IsZero()}
	}
	if changes.Dirty(domain.FieldTotal) {
		updates[m_booking.Total] = booking.Total()
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_booking.Price] = booking.Price()
	}
	if changes.Dirty(domain.FieldIsPriceTbc) {
		updates[m_booking.IsPriceTbc] = booking.IsPriceTbc()
	}
	if changes.Dirty(domain.FieldIsLocked) {
		updates[m_booking.IsLocked] = booking.IsLocked()
	}
	if changes.Dirty(domain.FieldPaymentRef) {
		updates[m_booking.PaymentRef] = booking.PaymentRef()
	}

	if len(updates) == 0 {
		return nil
	}

	return r.model.UpdateMut(booking.ID(), version, updates)
}

// DeleteMut creates a mutation removing the booking row.
func (r *BookingRepo) DeleteMut(bookingID string) *spanner.Mutation {
	return r.model.DeleteMut(bookingID)
}

// GetByID retrieves a booking by ID, reconstructing the domain aggregate.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	row, err := r.client.Single().ReadRow(ctx, m_booking.TableName, spanner.Key{bookingID}, []string{
		m_booking.BookingID,
		m_booking.Code,
		m_booking.CustomerID,
		m_booking.CenterID,
		m_booking.OfficeID,
		m_booking.Status,
		m_booking.DateFrom,
		m_booking.DateTo,
		m_booking.Total,
		m_booking.Price,
		m_booking.IsPriceTbc,
		m_booking.IsLocked,
		m_booking.IsFromChannel,
		m_booking.IsCancelled,
		m_booking.PaymentRef,
		m_booking.Version,
		m_booking.CreatedAt,
		m_booking.UpdatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking: %w", err)
	}

	var data m_booking.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse booking: %w", err)
	}

	return r.dataToDomain(&data), nil
}

// Version returns the optimistic-lock version of the booking row.
func (r *BookingRepo) Version(ctx context.Context, bookingID string) (int64, error) {
	row, err := r.client.Single().ReadRow(ctx, m_booking.TableName, spanner.Key{bookingID}, []string{m_booking.Version})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return 0, domain.ErrBookingNotFound
		}
		return 0, fmt.Errorf("failed to read booking version: %w", err)
	}

	var version int64
	if err := row.Columns(&version); err != nil {
		return 0, fmt.Errorf("failed to parse booking version: %w", err)
	}
	return version, nil
}

// NextCode reserves the next booking code of the center office sequence.
// Codes only need to be unique and increasing per office; gaps are fine.
func (r *BookingRepo) NextCode(ctx context.Context, officeID string) (int64, error) {
	stmt := spanner.Statement{
		SQL: "SELECT COALESCE(MAX(code), 0) FROM bookings WHERE office_id = @office_id",
		Params: map[string]interface{}{
			"office_id": officeID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to read office code sequence: %w", err)
	}

	var maxCode int64
	if err := row.Columns(&maxCode); err != nil {
		return 0, fmt.Errorf("failed to parse office code sequence: %w", err)
	}
	return maxCode + 1, nil
}

// Fundings returns the expected payment installments of a booking.
func (r *BookingRepo) Fundings(ctx context.Context, bookingID string) ([]domain.Funding, error) {
	stmt := spanner.Statement{
		SQL: "SELECT funding_id, booking_id, due_date, amount, is_paid " +
			"FROM fundings WHERE booking_id = @booking_id ORDER BY due_date",
		Params: map[string]interface{}{
			"booking_id": bookingID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var fundings []domain.Funding
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate fundings: %w", err)
		}

		var f domain.Funding
		if err := row.Columns(&f.ID, &f.BookingID, &f.DueDate, &f.Amount, &f.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to parse funding: %w", err)
		}
		fundings = append(fundings, f)
	}
	return fundings, nil
}

// domainToData converts a domain Booking to database Data.
func (r *BookingRepo) domainToData(booking *domain.Booking) *m_booking.Data {
	return &m_booking.Data{
		BookingID:     booking.ID(),
		Code:          booking.Code(),
		CustomerID:    booking.CustomerID(),
		CenterID:      booking.CenterID(),
		OfficeID:      booking.OfficeID(),
		Status:        string(booking.Status()),
		DateFrom:      spanner.NullTime{Time: booking.DateFrom(), Valid: !booking.DateFrom().IsZero()},
		DateTo:        spanner.NullTime{Time: booking.DateTo(), Valid: !booking.DateTo().IsZero()},
		Total:         booking.Total(),
		Price:         booking.Price(),
		IsPriceTbc:    booking.IsPriceTbc(),
		IsLocked:      booking.IsLocked(),
		IsCancelled:   booking.IsCancelled(),
		PaymentRef:    booking.PaymentRef(),
		Version:       1,
		CreatedAt:     booking.CreatedAt(),
		UpdatedAt:     booking.UpdatedAt(),
	}
}

// dataToDomain converts database Data to a domain Booking.
func (r *BookingRepo) dataToDomain(data *m_booking.Data) *domain.Booking {
	return domain.ReconstructBooking(
		data.BookingID,
		data.Code,
		data.CustomerID,
		data.CenterID,
		data.OfficeID,
		domain.BookingStatus(data.Status),
		data.DateFrom.Time,
		data.DateTo.Time,
		data.Total,
		data.Price,
		data.IsPriceTbc,
		data.IsLocked,
		data.IsFromChannel,
		data.IsCancelled,
		data.PaymentRef,
		data.CreatedAt,
		data.UpdatedAt,
		r.clock,
	)
}
