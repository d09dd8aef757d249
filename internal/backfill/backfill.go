// Package backfill patches legacy user documents created before the
// subscription fields existed, bringing every record up to the current
// schema: a subscriptionPlan and a full default billing structure.
package backfill

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Joeykosseifi/JobLink-project-sub001/internal/models"
)

// DefaultWorkers bounds how many record saves run at once. The old script
// fired every save concurrently with no cap; a bounded pool keeps the
// connection pool from being flooded on large collections.
const DefaultWorkers = 16

// Store is the slice of the user repository the backfill needs.
type Store interface {
	FindMissingBillingFields(ctx context.Context) ([]*models.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
}

// ItemError records one document that could not be updated.
type ItemError struct {
	ID  string
	Err error
}

// Summary is the per-run result: how many records matched the query, how
// many were updated, and which ones failed.
type Summary struct {
	Matched int
	Updated int
	Failed  []ItemError
}

// OK reports whether every matched record was updated.
func (s Summary) OK() bool {
	return len(s.Failed) == 0
}

type Runner struct {
	store   Store
	log     *zap.SugaredLogger
	workers int
}

func NewRunner(store Store, log *zap.SugaredLogger, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{store: store, log: log, workers: workers}
}

// Run executes the migration. Each record is patched and saved
// independently; one bad record is reported in the summary instead of
// aborting the batch. Run only returns an error when the initial query
// fails or the context is cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	users, err := r.store.FindMissingBillingFields(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Matched: len(users)}
	r.log.Infow("found users needing subscription backfill", "count", len(users))
	if len(users) == 0 {
		return summary, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, u := range users {
		g.Go(func() error {
			fields := patch(u)
			if len(fields) == 0 {
				return nil
			}
			if err := r.store.UpdateFields(ctx, u.ID, fields); err != nil {
				r.log.Errorw("failed to update user", "id", u.ID.Hex(), "error", err)
				mu.Lock()
				summary.Failed = append(summary.Failed, ItemError{ID: u.ID.Hex(), Err: err})
				mu.Unlock()
				return nil
			}
			r.log.Debugw("updated user", "id", u.ID.Hex())
			mu.Lock()
			summary.Updated++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// patch fills exactly the fields the migration introduces and returns the
// update document for them. Persisting only these fields leaves everything
// else in the stored document alone: a legacy record's password hash, role,
// active flag and settings are never rewritten, even when they were absent
// from the decoded struct.
func patch(u *models.User) bson.M {
	fields := bson.M{}
	if u.SubscriptionPlan == "" {
		u.SubscriptionPlan = models.PlanFree
		fields["subscriptionPlan"] = u.SubscriptionPlan
	}
	if u.Billing == nil {
		u.Billing = models.DefaultBilling()
		fields["billing"] = u.Billing
	}
	return fields
}
