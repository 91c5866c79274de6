package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// StatsRepository manages the system/overview singleton document.
type StatsRepository struct {
	client *firestore.Client
}

func NewStatsRepository(client *firestore.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func (r *StatsRepository) SaveOverview(ctx context.Context, ov model.Overview) error {
	if ov.LastUpdated.IsZero() {
		ov.LastUpdated = time.Now().UTC()
	}
	ref := r.client.Collection("system").Doc("overview")
	if _, err := ref.Set(ctx, ov); err != nil {
		return fmt.Errorf("save overview: %w", err)
	}
	return nil
}

func (r *StatsRepository) GetOverview(ctx context.Context) (model.Overview, error) {
	ref := r.client.Collection("system").Doc("overview")
	snap, err := ref.Get(ctx)
	if err != nil {
		return model.Overview{}, fmt.Errorf("get overview: %w", err)
	}
	var ov model.Overview
	if err := snap.DataTo(&ov); err != nil {
		return model.Overview{}, fmt.Errorf("decode overview: %w", err)
	}
	return ov, nil
}
