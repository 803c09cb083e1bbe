package update_line_qty

import (
	"context"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/usecases/replan"
)

// Request overrides a line quantity or its per-day variation vector. A
// negative Qty keeps the current value; an empty QtyVars keeps the stored
// vector.
type Request struct {
	BookingID string
	LineID    string

	Qty     int
	SetQty  bool
	QtyVars string
}

// Interactor handles the update line quantity use case.
type Interactor struct {
	replanner *replan.Replanner
}

// NewInteractor creates a new update line quantity interactor.
func NewInteractor(replanner *replan.Replanner) *Interactor {
	return &Interactor{replanner: replanner}
}

// Execute applies the override and replays the cascade. Totals, free
// units and the consumption planning all follow the quantity.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	ws, err := i.replanner.Load(ctx, req.BookingID)
	if err != nil {
		return err
	}

	var line *domain.BookingLine
	for _, gs := range ws.State.Groups {
		for _, candidate := range gs.Lines {
			if candidate.ID() == req.LineID {
				line = candidate
				break
			}
		}
	}
	if line == nil {
		return domain.ErrLineNotFound
	}

	if req.SetQty {
		if err := line.SetOwnQty(req.Qty); err != nil {
			return err
		}
	}
	if req.QtyVars != "" {
		line.SetQtyVars(req.QtyVars)
	}

	return i.replanner.ReplanAndCommit(ctx, ws)
}
