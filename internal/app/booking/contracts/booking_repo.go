package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/discope/booking-service/internal/app/booking/domain"
)

// BookingRepository persists the Booking aggregate. Repositories return
// mutations without applying them; usecases collect them into a
// CommitPlan (Golden Mutation Pattern).
type BookingRepository interface {
	// InsertMut creates a mutation for inserting a new booking.
	InsertMut(booking *domain.Booking) *spanner.Mutation

	// UpdateMut creates a mutation covering the booking's dirty fields,
	// or nil when nothing changed. The version is the one the aggregate
	// was loaded with; the mutation bumps it.
	UpdateMut(booking *domain.Booking, version int64) *spanner.Mutation

	// DeleteMut creates a mutation removing the booking row.
	DeleteMut(bookingID string) *spanner.Mutation

	// GetByID reconstructs the aggregate from storage.
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// Version returns the optimistic-lock version of the booking row.
	Version(ctx context.Context, bookingID string) (int64, error)

	// NextCode reserves the next booking code of the center office
	// sequence.
	NextCode(ctx context.Context, officeID string) (int64, error)

	// Fundings returns the expected payment installments of a booking.
	Fundings(ctx context.Context, bookingID string) ([]domain.Funding, error)
}

// GroupRepository persists booking line groups and their owned age-range
// assignments.
type GroupRepository interface {
	InsertMut(group *domain.BookingLineGroup) []*spanner.Mutation
	UpdateMut(group *domain.BookingLineGroup) []*spanner.Mutation
	DeleteMut(groupID string) []*spanner.Mutation

	GetByID(ctx context.Context, groupID string) (*domain.BookingLineGroup, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.BookingLineGroup, error)
}

// LineRepository persists booking lines, their activities and price
// adapters.
type LineRepository interface {
	InsertMut(line *domain.BookingLine) *spanner.Mutation
	UpdateMut(line *domain.BookingLine) *spanner.Mutation
	DeleteMut(lineID string) *spanner.Mutation

	GetByID(ctx context.Context, lineID string) (*domain.BookingLine, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.BookingLine, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.BookingLine, error)

	// Adapters
	AdaptersByGroup(ctx context.Context, groupID string) ([]domain.PriceAdapter, error)
	InsertAdapterMut(adapter domain.PriceAdapter) *spanner.Mutation
	DeleteAdapterMut(adapterID string) *spanner.Mutation

	// Activities
	ActivitiesByGroup(ctx context.Context, groupID string) ([]*domain.BookingActivity, error)
	UpsertActivityMut(activity *domain.BookingActivity) *spanner.Mutation
	DeleteActivityMut(activityID string) *spanner.Mutation
}

// AssignmentRepository persists the per-group rental-unit buckets and
// assignments.
type AssignmentRepository interface {
	ListByGroup(ctx context.Context, groupID string) ([]domain.SojournProductModel, []domain.RentalUnitAssignment, error)

	UpsertSPMMut(spm domain.SojournProductModel) *spanner.Mutation
	DeleteSPMMut(spmID string) *spanner.Mutation
	UpsertMut(assignment domain.RentalUnitAssignment) *spanner.Mutation
	DeleteByGroupMuts(ctx context.Context, groupID string) ([]*spanner.Mutation, error)
}

// ConsumptionRepository persists the regenerated planning of a group.
type ConsumptionRepository interface {
	ListByGroup(ctx context.Context, groupID string) ([]domain.Consumption, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Consumption, error)

	InsertMut(consumption domain.Consumption) *spanner.Mutation
	DeleteByGroupMuts(ctx context.Context, groupID string) ([]*spanner.Mutation, error)

	// Meals and preferences owned by groups, read by the scheduler.
	MealsByGroup(ctx context.Context, groupID string) ([]domain.BookingMeal, error)
	MealPreferencesByGroup(ctx context.Context, groupID string) ([]domain.MealPreference, error)
}
