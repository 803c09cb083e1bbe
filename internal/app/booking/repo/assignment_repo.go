package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/models/m_assignment"
	"github.com/discope/booking-service/internal/models/m_spm"
)

// AssignmentRepo implements AssignmentRepository for Spanner.
type AssignmentRepo struct {
	client          *spanner.Client
	spmModel        *m_spm.Model
	assignmentModel *m_assignment.Model
}

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(client *spanner.Client) contracts.AssignmentRepository {
	return &AssignmentRepo{
		client:          client,
		spmModel:        m_spm.NewModel(),
		assignmentModel: m_assignment.NewModel(),
	}
}

// ListByGroup retrieves the sojourn buckets of a group together with their
// unit assignments.
func (r *AssignmentRepo) ListByGroup(ctx context.Context, groupID string) ([]domain.SojournProductModel, []domain.RentalUnitAssignment, error) {
	spms, err := r.spmsFor(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	stmt := spanner.Statement{
		SQL: "SELECT assignment_id, group_id, spm_id, rental_unit_id, qty, is_locked " +
			"FROM rental_unit_assignments WHERE group_id = @group_id ORDER BY assignment_id",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var assignments []domain.RentalUnitAssignment
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		var a domain.RentalUnitAssignment
		var qty int64
		if err := row.Columns(&a.ID, &a.GroupID, &a.SPMID, &a.RentalUnitID, &qty, &a.IsLocked); err != nil {
			return nil, nil, fmt.Errorf("failed to parse assignment: %w", err)
		}
		a.Qty = int(qty)
		assignments = append(assignments, a)
	}
	return spms, assignments, nil
}

// UpsertSPMMut creates a mutation writing a sojourn bucket.
func (r *AssignmentRepo) UpsertSPMMut(spm domain.SojournProductModel) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		m_spm.TableName,
		[]string{m_spm.SPMID, m_spm.GroupID, m_spm.ProductModelID, m_spm.IsAccommodation, m_spm.QtyPers, m_spm.CreatedAt},
		[]interface{}{spm.ID, spm.GroupID, spm.ProductModelID, spm.IsAccommodation, int64(spm.QtyPers), spanner.CommitTimestamp},
	)
}

// DeleteSPMMut creates a mutation removing a sojourn bucket.
func (r *AssignmentRepo) DeleteSPMMut(spmID string) *spanner.Mutation {
	return r.spmModel.DeleteMut(spmID)
}

// UpsertMut creates a mutation writing a unit assignment. Assignments
// that survive a replan untouched keep their ids, so the write has to
// tolerate existing rows.
func (r *AssignmentRepo) UpsertMut(assignment domain.RentalUnitAssignment) *spanner.Mutation {
	return r.assignmentModel.UpsertMut(&m_assignment.Data{
		AssignmentID: assignment.ID,
		GroupID:      assignment.GroupID,
		SPMID:        assignment.SPMID,
		RentalUnitID: assignment.RentalUnitID,
		Qty:          int64(assignment.Qty),
		IsLocked:     assignment.IsLocked,
	})
}

// DeleteByGroupMuts creates the mutations removing every unlocked
// assignment of a group, ahead of a reallocation.
func (r *AssignmentRepo) DeleteByGroupMuts(ctx context.Context, groupID string) ([]*spanner.Mutation, error) {
	stmt := spanner.Statement{
		SQL: "SELECT assignment_id FROM rental_unit_assignments " +
			"WHERE group_id = @group_id AND is_locked = FALSE",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var muts []*spanner.Mutation
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		var id string
		if err := row.Columns(&id); err != nil {
			return nil, fmt.Errorf("failed to parse assignment id: %w", err)
		}
		muts = append(muts, r.assignmentModel.DeleteMut(id))
	}
	return muts, nil
}

func (r *AssignmentRepo) spmsFor(ctx context.Context, groupID string) ([]domain.SojournProductModel, error) {
	stmt := spanner.Statement{
		SQL: "SELECT spm_id, group_id, product_model_id, is_accommodation, qty_pers " +
			"FROM sojourn_product_models WHERE group_id = @group_id ORDER BY spm_id",
		Params: map[string]interface{}{
			"group_id": groupID,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var spms []domain.SojournProductModel
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate sojourn buckets: %w", err)
		}

		var s domain.SojournProductModel
		var qtyPers int64
		if err := row.Columns(&s.ID, &s.GroupID, &s.ProductModelID, &s.IsAccommodation, &qtyPers); err != nil {
			return nil, fmt.Errorf("failed to parse sojourn bucket: %w", err)
		}
		s.QtyPers = int(qtyPers)
		spms = append(spms, s)
	}
	return spms, nil
}
