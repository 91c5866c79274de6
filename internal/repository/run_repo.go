package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
	"google.golang.org/api/iterator"
)

const loadRunsCollection = "load_runs"

// RunRepository stores dataset load run records.
type RunRepository struct {
	client *firestore.Client
}

func NewRunRepository(client *firestore.Client) *RunRepository {
	return &RunRepository{client: client}
}

// SaveRun writes the run document, replacing any previous version.
func (r *RunRepository) SaveRun(ctx context.Context, run model.LoadRun) error {
	if run.RunID == "" {
		return fmt.Errorf("runId is required")
	}
	ref := r.client.Collection(loadRunsCollection).Doc(run.RunID)
	if _, err := ref.Set(ctx, run); err != nil {
		return fmt.Errorf("save run %s: %w", run.RunID, err)
	}
	return nil
}

// ListRecent returns the newest runs first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]model.LoadRun, error) {
	if limit <= 0 {
		limit = 10
	}
	iter := r.client.Collection(loadRunsCollection).
		OrderBy("startedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var runs []model.LoadRun
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		var run model.LoadRun
		if err := snap.DataTo(&run); err != nil {
			return nil, fmt.Errorf("decode run %s: %w", snap.Ref.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
