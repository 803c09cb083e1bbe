// Package committer collects Spanner mutations produced across one
// state-changing operation and applies them atomically.
//
// The flow in a usecase is always the same: load aggregates, run the
// domain logic, ask each repository for mutations covering the dirty
// fields, gather everything in a CommitPlan together with outbox events,
// and apply the plan in a single transaction. Either the whole cascade
// (booking, groups, lines, assignments, consumptions, outbox) lands, or
// none of it does.
package committer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// ErrVersionConflict is returned when an optimistic version check detects
// a concurrent modification of the booking.
var ErrVersionConflict = errors.New("booking was modified concurrently")

// CommitPlan is a typed collection of Spanner mutations for one root
// operation.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates an empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{mutations: make([]*spanner.Mutation, 0)}
}

// Add appends a mutation to the plan. Nil mutations are ignored so
// repositories can return nil for clean aggregates.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple appends several mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns the collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty reports whether the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Committer executes CommitPlans against Spanner.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// ApplyWithReadWriteTransaction runs fn inside a read-write transaction,
// for flows that need reads interleaved before buffering mutations.
func (c *Committer) ApplyWithReadWriteTransaction(ctx context.Context, fn func(context.Context, *spanner.ReadWriteTransaction) error) error {
	if _, err := c.client.ReadWriteTransaction(ctx, fn); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// ApplyWithVersionCheck executes the plan only if the booking row still
// carries the version the aggregates were loaded with. Detects lost
// updates between concurrent back-office operations on the same booking.
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, bookingID string, expectedVersion int64, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, "bookings", spanner.Key{bookingID}, []string{"version"})
		if err != nil {
			return fmt.Errorf("failed to read booking version: %w", err)
		}

		var currentVersion int64
		if err := row.Column(0, &currentVersion); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if currentVersion != expectedVersion {
			return fmt.Errorf("version mismatch: expected %d, got %d", expectedVersion, currentVersion)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if strings.Contains(err.Error(), "version mismatch") {
			return fmt.Errorf("%w: %v", ErrVersionConflict, err)
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}

	return nil
}
