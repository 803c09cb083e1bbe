// Package replan loads the full working set of a booking, runs the
// recomputation pipeline over it, and persists the resulting changes in
// one commit plan. Every state-changing usecase that can move prices,
// quantities, discounts, units or planning entries goes through here.
package replan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/services"
	"github.com/discope/booking-service/internal/pkg/centerlock"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
)

// CheckUnitsHandler names the deferred task that re-attempts rental unit
// allocation for a group that came out of a recompute uncovered.
const CheckUnitsHandler = "check_units_assignment"

// checkUnitsDelay leaves the pool time to free up before retrying.
const checkUnitsDelay = 15 * time.Minute

// Workspace is one loaded booking plus the identity snapshots needed to
// diff the regenerated child sets against what is stored.
type Workspace struct {
	State   *services.BookingState
	Version int64

	priorLines      map[string]bool
	priorAdapters   map[string]map[string]bool // group id -> adapter ids
	priorActivities map[string]map[string]bool
	priorSPMs       map[string]map[string]bool
}

// Replanner wires the repositories, the pipeline, the per-center lock and
// the committer behind a single load/replan/commit cycle.
type Replanner struct {
	bookings     contracts.BookingRepository
	groups       contracts.GroupRepository
	lines        contracts.LineRepository
	assignments  contracts.AssignmentRepository
	consumptions contracts.ConsumptionRepository
	outbox       contracts.OutboxRepository
	settings     contracts.SettingsRepository
	tasks        contracts.TaskScheduler
	pipeline     *services.Pipeline
	committer    *committer.Committer
	locker       *centerlock.Locker
	clock        clock.Clock
}

// NewReplanner creates a Replanner.
func NewReplanner(
	bookings contracts.BookingRepository,
	groups contracts.GroupRepository,
	lines contracts.LineRepository,
	assignments contracts.AssignmentRepository,
	consumptions contracts.ConsumptionRepository,
	outbox contracts.OutboxRepository,
	settings contracts.SettingsRepository,
	tasks contracts.TaskScheduler,
	pipeline *services.Pipeline,
	cmt *committer.Committer,
	locker *centerlock.Locker,
	clk clock.Clock,
) *Replanner {
	return &Replanner{
		bookings:     bookings,
		groups:       groups,
		lines:        lines,
		assignments:  assignments,
		consumptions: consumptions,
		outbox:       outbox,
		settings:     settings,
		tasks:        tasks,
		pipeline:     pipeline,
		committer:    cmt,
		locker:       locker,
		clock:        clk,
	}
}

// Load reads the booking aggregate and every owned child set.
func (r *Replanner) Load(ctx context.Context, bookingID string) (*Workspace, error) {
	booking, err := r.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	version, err := r.bookings.Version(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	groups, err := r.groups.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		State:           &services.BookingState{Booking: booking},
		Version:         version,
		priorLines:      make(map[string]bool),
		priorAdapters:   make(map[string]map[string]bool),
		priorActivities: make(map[string]map[string]bool),
		priorSPMs:       make(map[string]map[string]bool),
	}

	for _, group := range groups {
		gs := &services.GroupState{Group: group}

		if gs.Lines, err = r.lines.ListByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}
		if gs.Adapters, err = r.lines.AdaptersByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}
		if gs.Activities, err = r.lines.ActivitiesByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}
		if gs.SPMs, gs.Assignments, err = r.assignments.ListByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}
		if gs.Meals, err = r.consumptions.MealsByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}
		if gs.Preferences, err = r.consumptions.MealPreferencesByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}
		if gs.Consumptions, err = r.consumptions.ListByGroup(ctx, group.ID()); err != nil {
			return nil, err
		}

		ws.snapshotGroup(gs)
		ws.State.Groups = append(ws.State.Groups, gs)
	}
	return ws, nil
}

func (ws *Workspace) snapshotGroup(gs *services.GroupState) {
	groupID := gs.Group.ID()
	for _, line := range gs.Lines {
		ws.priorLines[line.ID()] = true
	}
	ws.priorAdapters[groupID] = make(map[string]bool, len(gs.Adapters))
	for _, a := range gs.Adapters {
		ws.priorAdapters[groupID][a.ID] = true
	}
	ws.priorActivities[groupID] = make(map[string]bool, len(gs.Activities))
	for _, a := range gs.Activities {
		ws.priorActivities[groupID][a.ID] = true
	}
	ws.priorSPMs[groupID] = make(map[string]bool, len(gs.SPMs))
	for _, s := range gs.SPMs {
		ws.priorSPMs[groupID][s.ID] = true
	}
}

// ReplanAndCommit runs the pipeline over the workspace and commits every
// resulting change atomically. The per-center lock covers the whole
// availability read-modify-write; extra mutations (deletes prepared by the
// caller, task submissions) join the same plan.
func (r *Replanner) ReplanAndCommit(ctx context.Context, ws *Workspace, extra ...*spanner.Mutation) error {
	lease, err := r.locker.Acquire(ctx, ws.State.Booking.CenterID())
	if err != nil {
		return err
	}
	defer lease.Release(ctx)

	if err := r.pipeline.Recompute(ctx, ws.State); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.AddMultiple(extra)

	for _, gs := range ws.State.Groups {
		if err := r.planGroup(ctx, ws, gs, plan); err != nil {
			return err
		}
	}

	booking := ws.State.Booking
	defer booking.ClearEvents()

	plan.Add(r.bookings.UpdateMut(booking, ws.Version))

	for _, event := range booking.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(r.outbox.InsertMut(r.outbox.EnrichEvent(event, string(payload))))
	}

	unassigned := unassignedGroups(booking.DomainEvents())

	if plan.IsEmpty() {
		return nil
	}
	if err := r.committer.ApplyWithVersionCheck(ctx, booking.ID(), ws.Version, plan); err != nil {
		return err
	}

	// Groups left without units get a deferred re-check. The scheduler keys
	// on the group, so repeated recomputes collapse into a single task.
	for _, groupID := range unassigned {
		key := CheckUnitsHandler + ":" + groupID
		payload := map[string]string{"booking_id": booking.ID(), "group_id": groupID}
		runAt := r.clock.Now().Add(checkUnitsDelay)
		if err := r.tasks.Schedule(ctx, key, runAt, CheckUnitsHandler, payload); err != nil {
			return fmt.Errorf("failed to schedule units check: %w", err)
		}
	}
	return nil
}

func unassignedGroups(events []domain.DomainEvent) []string {
	var out []string
	for _, event := range events {
		if e, ok := event.(*domain.UnitsUnassignedEvent); ok {
			out = append(out, e.GroupID)
		}
	}
	return out
}

func (r *Replanner) planGroup(ctx context.Context, ws *Workspace, gs *services.GroupState, plan *committer.CommitPlan) error {
	groupID := gs.Group.ID()

	plan.AddMultiple(r.groups.UpdateMut(gs.Group))

	// Lines: updates for survivors, inserts for lines the pipeline added
	// (autosales). Deletions are prepared by the calling usecase.
	for _, line := range gs.Lines {
		if ws.priorLines[line.ID()] {
			plan.Add(r.lines.UpdateMut(line))
		} else {
			plan.Add(r.lines.InsertMut(line))
		}
	}

	// Adapters are regenerated with fresh ids; manual ones keep theirs.
	current := make(map[string]bool, len(gs.Adapters))
	for _, a := range gs.Adapters {
		current[a.ID] = true
		if !ws.priorAdapters[groupID][a.ID] {
			plan.Add(r.lines.InsertAdapterMut(a))
		}
	}
	for id := range ws.priorAdapters[groupID] {
		if !current[id] {
			plan.Add(r.lines.DeleteAdapterMut(id))
		}
	}

	currentActivities := make(map[string]bool, len(gs.Activities))
	for _, a := range gs.Activities {
		currentActivities[a.ID] = true
		plan.Add(r.lines.UpsertActivityMut(a))
	}
	for id := range ws.priorActivities[groupID] {
		if !currentActivities[id] {
			plan.Add(r.lines.DeleteActivityMut(id))
		}
	}

	currentSPMs := make(map[string]bool, len(gs.SPMs))
	for _, s := range gs.SPMs {
		currentSPMs[s.ID] = true
		plan.Add(r.assignments.UpsertSPMMut(s))
	}
	for id := range ws.priorSPMs[groupID] {
		if !currentSPMs[id] {
			plan.Add(r.assignments.DeleteSPMMut(id))
		}
	}

	// Unlocked assignments are cleared and rewritten. When the allocator
	// skipped the group (locked units, manual assignment) the surviving
	// rows keep their ids, so the writes are upserts that land after the
	// deletes within the commit.
	deleteMuts, err := r.assignments.DeleteByGroupMuts(ctx, groupID)
	if err != nil {
		return err
	}
	plan.AddMultiple(deleteMuts)
	for _, a := range gs.Assignments {
		plan.Add(r.assignments.UpsertMut(a))
	}

	// Planning entries are replaced wholesale.
	consumptionDeletes, err := r.consumptions.DeleteByGroupMuts(ctx, groupID)
	if err != nil {
		return err
	}
	plan.AddMultiple(consumptionDeletes)
	for _, c := range gs.Consumptions {
		plan.Add(r.consumptions.InsertMut(c))
	}

	return nil
}
