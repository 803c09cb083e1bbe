package update_age_ranges

import (
	"context"

	"github.com/google/uuid"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/usecases/replan"
)

// RangeInput is one requested age bracket size.
type RangeInput struct {
	AgeRangeID string
	Qty        int
}

// Request replaces the age composition of a group.
type Request struct {
	BookingID string
	GroupID   string
	Ranges    []RangeInput
}

// Interactor handles the update age ranges use case.
type Interactor struct {
	replanner *replan.Replanner
	catalog   contracts.Catalog
}

// NewInteractor creates a new update age ranges interactor.
func NewInteractor(replanner *replan.Replanner, catalog contracts.Catalog) *Interactor {
	return &Interactor{replanner: replanner, catalog: catalog}
}

// Execute rewrites the group composition. Head counts drive derived
// quantities, so the full cascade replays afterwards.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	ws, err := i.replanner.Load(ctx, req.BookingID)
	if err != nil {
		return err
	}

	var group *domain.BookingLineGroup
	for _, gs := range ws.State.Groups {
		if gs.Group.ID() == req.GroupID {
			group = gs.Group
			break
		}
	}
	if group == nil {
		return domain.ErrGroupNotFound
	}

	assignments := make([]domain.AgeRangeAssignment, 0, len(req.Ranges))
	for _, input := range req.Ranges {
		ageRange, err := i.catalog.AgeRange(ctx, input.AgeRangeID)
		if err != nil {
			return err
		}
		assignments = append(assignments, domain.AgeRangeAssignment{
			ID:         uuid.New().String(),
			AgeRangeID: ageRange.ID,
			Qty:        input.Qty,
			IsChildren: ageRange.IsChildren,
		})
	}

	if err := group.SetAgeRanges(assignments); err != nil {
		return err
	}

	return i.replanner.ReplanAndCommit(ctx, ws)
}
