// Package check_units drains the deferred unit assignment checks. A
// recompute that leaves a group without rental units schedules one of
// these tasks; the worker re-runs the allocation later, when the pool may
// have freed up.
package check_units

import (
	"context"
	"errors"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/usecases/replan"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
)

// batchSize bounds how many due tasks one worker pass picks up.
const batchSize = 50

// Interactor handles the check units use case.
type Interactor struct {
	tasks     contracts.TaskScheduler
	replanner *replan.Replanner
	clock     clock.Clock
}

// NewInteractor creates a new check units interactor.
func NewInteractor(tasks contracts.TaskScheduler, replanner *replan.Replanner, clk clock.Clock) *Interactor {
	return &Interactor{tasks: tasks, replanner: replanner, clock: clk}
}

// Result reports one worker pass.
type Result struct {
	Processed int
	Resolved  int
}

// Execute picks up every due check and replays the allocation for the
// affected booking. A booking deleted or mutated in the meantime does not
// stop the pass: its task completes and the next one runs. Checks that
// still find a full pool reschedule themselves through the replanner.
func (i *Interactor) Execute(ctx context.Context) (*Result, error) {
	due, err := i.tasks.Due(ctx, replan.CheckUnitsHandler, i.clock.Now(), batchSize)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, task := range due {
		resolved, rescheduled, err := i.recheck(ctx, task.Payload["booking_id"])
		if err != nil {
			return res, err
		}
		// A recheck that still found a full pool re-upserted the same task
		// key with a later due time; completing it here would drop that
		// follow-up.
		if !rescheduled {
			if err := i.tasks.Complete(ctx, task.UniqueKey); err != nil {
				return res, err
			}
		}
		res.Processed++
		if resolved {
			res.Resolved++
		}
	}
	return res, nil
}

func (i *Interactor) recheck(ctx context.Context, bookingID string) (resolved, rescheduled bool, err error) {
	if bookingID == "" {
		return false, false, nil
	}

	ws, err := i.replanner.Load(ctx, bookingID)
	if errors.Is(err, domain.ErrBookingNotFound) {
		// Deleted since the check was scheduled.
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	err = i.replanner.ReplanAndCommit(ctx, ws)
	if errors.Is(err, committer.ErrVersionConflict) {
		// Someone touched the booking concurrently. Their recompute either
		// assigned the units or scheduled a fresh check, so this one is done.
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	if covered(ws) {
		return true, false, nil
	}
	return false, true, nil
}

// covered reports whether every accommodation of the workspace ended the
// replan with rental units assigned.
func covered(ws *replan.Workspace) bool {
	for _, gs := range ws.State.Groups {
		for _, spm := range gs.SPMs {
			if !spm.IsAccommodation {
				continue
			}
			assigned := false
			for _, a := range gs.Assignments {
				if a.SPMID == spm.ID {
					assigned = true
					break
				}
			}
			if !assigned {
				return false
			}
		}
	}
	return true
}
