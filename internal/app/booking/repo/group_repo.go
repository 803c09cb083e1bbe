package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/models/m_age_range"
	"github.com/discope/booking-service/internal/models/m_group"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/google/uuid"
)

// GroupRepo implements GroupRepository for Spanner. Age-range assignments
// are owned by the group and written alongside it, replaced as a set.
type GroupRepo struct {
	client   *spanner.Client
	model    *m_group.Model
	ageModel *m_age_range.Model
	clock    clock.Clock
}

// NewGroupRepo creates a new GroupRepo.
func NewGroupRepo(client *spanner.Client, clk clock.Clock) contracts.GroupRepository {
	return &GroupRepo{
		client:   client,
		model:    m_group.NewModel(),
		ageModel: m_age_range.NewModel(),
		clock:    clk,
	}
}

// InsertMut creates mutations inserting the group and its age-range
// assignments.
func (r *GroupRepo) InsertMut(group *domain.BookingLineGroup) []*spanner.Mutation {
	muts := []*spanner.Mutation{r.model.InsertMut(r.domainToData(group))}
	return append(muts, r.ageRangeMuts(group)...)
}

// UpdateMut creates mutations covering the group's dirty fields. When the
// age-range composition changed the assignment set is rewritten.
func (r *GroupRepo) UpdateMut(group *domain.BookingLineGroup) []*spanner.Mutation {
	changes := group.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldGroupType) {
		updates[m_group.GroupType] = string(group.Type())
	}
	if changes.Dirty(domain.FieldDateFrom) {
		updates[m_group.DateFrom] = group.DateFrom()
	}
	if changes.Dirty(domain.FieldDateTo) {
		updates[m_group.DateTo] = group.DateTo()
	}
	if changes.Dirty(domain.FieldTimeFrom) {
		updates[m_group.TimeFrom] = int64(group.TimeFrom())
	}
	if changes.Dirty(domain.FieldTimeTo) {
		updates[m_group.TimeTo] = int64(group.TimeTo())
	}
	if changes.Dirty(domain.FieldNbPers) {
		updates[m_group.NbPers] = int64(group.NbPers())
	}
	if changes.Dirty(domain.FieldNbChildren) {
		updates[m_group.NbChildren] = int64(group.NbChildren())
	}
	if changes.Dirty(domain.FieldRateClass) {
		updates[m_group.RateClassID] = group.RateClassID()
	}
	if changes.Dirty(domain.FieldPack) {
		updates[m_group.HasPack] = group.HasPack()
		updates[m_group.PackID] = spanner.NullString{StringVal: group.PackID(), Valid: group.PackID() != ""}
	}
	if changes.Dirty(domain.FieldLockedRentalUnits) {
		updates[m_group.HasLockedRentalUnits] = group.HasLockedRentalUnits()
	}
	if changes.Dirty(domain.FieldTotal) {
		updates[m_group.Total] = group.Total()
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_group.Price] = group.Price()
	}
	if changes.Dirty(domain.FieldFareBenefit) {
		updates[m_group.FareBenefit] = group.FareBenefit()
	}
	if changes.Dirty(domain.FieldIsPriceTbc) {
		updates[m_group.IsPriceTbc] = group.IsPriceTbc()
	}

	var muts []*spanner.Mutation
	if len(updates) > 0 {
		muts = append(muts, r.model.UpdateMut(group.ID(), updates))
	}

	if changes.Dirty(domain.FieldAgeRanges) {
		muts = append(muts, r.ageModel.DeleteByGroupMut(group.ID()))
		muts = append(muts, r.ageRangeMuts(group)...)
	}

	return muts
}

// DeleteMut creates mutations removing the group and its assignments.
func (r *GroupRepo) DeleteMut(groupID string) []*spanner.Mutation {
	return []*spanner.Mutation{
		r.ageModel.DeleteByGroupMut(groupID),
		r.model.DeleteMut(groupID),
	}
}

// GetByID retrieves a group by ID with its age-range assignments.
func (r *GroupRepo) GetByID(ctx context.Context, groupID string) (*domain.BookingLineGroup, error) {
	row, err := r.client.Single().ReadRow(ctx, m_group.TableName, spanner.Key{groupID}, groupColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to read group: %w", err)
	}

	var data m_group.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse group: %w", err)
	}

	ageRanges, err := r.ageRangesFor(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return r.dataToDomain(&data, ageRanges), nil
}

// ListByBooking retrieves every group of a booking ordered by start date.
func (r *GroupRepo) ListByBooking(ctx context.Context, bookingID string) ([]*domain.BookingLineGroup, error) {
	stmt := spanner.Statement{
		SQL: "SELECT " + groupColumnList() +
			" FROM booking_line_groups WHERE booking_id = @booking_id ORDER BY date_from, group_id",
		Params: map[string]interface{}{
			"booking_id": bookingID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var groups []*domain.BookingLineGroup
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate groups: %w", err)
		}

		var data m_group.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse group: %w", err)
		}

		ageRanges, err := r.ageRangesFor(ctx, data.GroupID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, r.dataToDomain(&data, ageRanges))
	}
	return groups, nil
}

func (r *GroupRepo) ageRangesFor(ctx context.Context, groupID string) ([]domain.AgeRangeAssignment, error) {
	stmt := spanner.Statement{
		SQL: "SELECT assignment_id, age_range_id, qty, is_children " +
			"FROM age_range_assignments WHERE group_id = @group_id ORDER BY age_range_id",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var assignments []domain.AgeRangeAssignment
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate age ranges: %w", err)
		}

		var a domain.AgeRangeAssignment
		var qty int64
		if err := row.Columns(&a.ID, &a.AgeRangeID, &qty, &a.IsChildren); err != nil {
			return nil, fmt.Errorf("failed to parse age range: %w", err)
		}
		a.Qty = int(qty)
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (r *GroupRepo) ageRangeMuts(group *domain.BookingLineGroup) []*spanner.Mutation {
	assignments := group.AgeRanges()
	muts := make([]*spanner.Mutation, 0, len(assignments))
	for _, a := range assignments {
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		muts = append(muts, r.ageModel.InsertMut(&m_age_range.Data{
			AssignmentID: id,
			GroupID:      group.ID(),
			AgeRangeID:   a.AgeRangeID,
			Qty:          int64(a.Qty),
			IsChildren:   a.IsChildren,
		}))
	}
	return muts
}

func (r *GroupRepo) domainToData(group *domain.BookingLineGroup) *m_group.Data {
	return &m_group.Data{
		GroupID:              group.ID(),
		BookingID:            group.BookingID(),
		Name:                 group.Name(),
		GroupType:            string(group.Type()),
		DateFrom:             group.DateFrom(),
		DateTo:               group.DateTo(),
		TimeFrom:             int64(group.TimeFrom()),
		TimeTo:               int64(group.TimeTo()),
		NbPers:               int64(group.NbPers()),
		NbChildren:           int64(group.NbChildren()),
		RateClassID:          group.RateClassID(),
		HasPack:              group.HasPack(),
		PackID:               spanner.NullString{StringVal: group.PackID(), Valid: group.PackID() != ""},
		IsLocked:             group.IsLocked(),
		HasLockedRentalUnits: group.HasLockedRentalUnits(),
		Total:                group.Total(),
		Price:                group.Price(),
		FareBenefit:          group.FareBenefit(),
		IsPriceTbc:           group.IsPriceTbc(),
	}
}

func (r *GroupRepo) dataToDomain(data *m_group.Data, ageRanges []domain.AgeRangeAssignment) *domain.BookingLineGroup {
	return domain.ReconstructBookingLineGroup(
		data.GroupID,
		data.BookingID,
		data.Name,
		domain.GroupType(data.GroupType),
		data.DateFrom,
		data.DateTo,
		domain.TimeOfDay(data.TimeFrom),
		domain.TimeOfDay(data.TimeTo),
		ageRanges,
		data.RateClassID,
		data.HasPack,
		data.PackID.StringVal,
		data.IsLocked,
		data.HasLockedRentalUnits,
		data.Total,
		data.Price,
		data.FareBenefit,
		data.IsPriceTbc,
		r.clock,
	)
}

func groupColumns() []string {
	return []string{
		m_group.GroupID, m_group.BookingID, m_group.Name, m_group.GroupType,
		m_group.DateFrom, m_group.DateTo, m_group.TimeFrom, m_group.TimeTo,
		m_group.NbPers, m_group.NbChildren, m_group.RateClassID,
		m_group.HasPack, m_group.PackID,
		m_group.IsLocked, m_group.HasLockedRentalUnits,
		m_group.Total, m_group.Price, m_group.FareBenefit, m_group.IsPriceTbc,
		m_group.CreatedAt, m_group.UpdatedAt,
	}
}

func groupColumnList() string {
	return "group_id, booking_id, name, group_type, date_from, date_to, " +
		"time_from, time_to, nb_pers, nb_children, rate_class_id, " +
		"has_pack, pack_id, is_locked, has_locked_rental_units, " +
		"total, price, fare_benefit, is_price_tbc, created_at, updated_at"
}
