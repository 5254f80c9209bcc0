// Package committer collects Spanner mutations from repositories and applies them atomically.
//
// Repositories never write directly. They return mutations, the caller gathers them
// into a CommitPlan together with any outbox rows, and a Committer applies the plan
// in one transaction:
//
//	plan := committer.NewPlan()
//	plan.AddMultiple(store.ReplaceMuts(cfg))
//	plan.Add(outbox.InsertMut(event))
//	return c.Apply(ctx, plan)
//
// ApplyGuarded runs a read inside the same read-write transaction before buffering the
// plan, which is how optimistic checks such as an expected settings revision are made.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan is an ordered batch of Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add appends a mutation. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple appends every non-nil mutation in muts.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Guard inspects current state inside the transaction. A non-nil error aborts the commit
// and is returned to the caller wrapped, so errors.Is still matches sentinel values.
type Guard func(ctx context.Context, txn *spanner.ReadWriteTransaction) error

// Committer executes CommitPlans.
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

// ApplyGuarded executes the CommitPlan in a read-write transaction after guard succeeds.
// A nil guard behaves like Apply.
func (c *Committer) ApplyGuarded(ctx context.Context, guard Guard, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	if guard == nil {
		return c.Apply(ctx, plan)
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		if err := guard(ctx, txn); err != nil {
			return err
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("failed to apply guarded commit plan: %w", err)
	}
	return nil
}
