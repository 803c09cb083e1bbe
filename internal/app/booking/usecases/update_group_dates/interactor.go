package update_group_dates

import (
	"context"
	"time"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/usecases/replan"
)

// Request moves a group's sojourn window. Zero times keep the current
// check-in and check-out moments.
type Request struct {
	BookingID string
	GroupID   string
	DateFrom  time.Time
	DateTo    time.Time
	TimeFrom  domain.TimeOfDay
	TimeTo    domain.TimeOfDay
}

// Interactor handles the update group dates use case.
type Interactor struct {
	replanner *replan.Replanner
}

// NewInteractor creates a new update group dates interactor.
func NewInteractor(replanner *replan.Replanner) *Interactor {
	return &Interactor{replanner: replanner}
}

// Execute changes the group window and replays the whole derivation
// cascade: prices can change list, quantities follow the night count,
// discounts rescale, units and planning entries are rebuilt.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	ws, err := i.replanner.Load(ctx, req.BookingID)
	if err != nil {
		return err
	}

	group := findGroup(ws, req.GroupID)
	if group == nil {
		return domain.ErrGroupNotFound
	}

	if err := group.SetDateRange(req.DateFrom, req.DateTo); err != nil {
		return err
	}
	if req.TimeFrom != 0 || req.TimeTo != 0 {
		group.SetTimes(req.TimeFrom, req.TimeTo)
	}

	return i.replanner.ReplanAndCommit(ctx, ws)
}

func findGroup(ws *replan.Workspace, groupID string) *domain.BookingLineGroup {
	for _, gs := range ws.State.Groups {
		if gs.Group.ID() == groupID {
			return gs.Group
		}
	}
	return nil
}
