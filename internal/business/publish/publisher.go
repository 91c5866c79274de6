// Package publish mirrors dataset load runs and the headline overview to an
// external store after each load.
package publish

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// RunStore persists load run metadata.
type RunStore interface {
	SaveRun(ctx context.Context, run model.LoadRun) error
}

// OverviewStore persists the overview singleton.
type OverviewStore interface {
	SaveOverview(ctx context.Context, ov model.Overview) error
}

const defaultTimeout = 10 * time.Second

type Publisher struct {
	runs    RunStore
	stats   OverviewStore
	logger  zerolog.Logger
	timeout time.Duration
}

func NewPublisher(runs RunStore, stats OverviewStore, logger zerolog.Logger) *Publisher {
	return &Publisher{
		runs:    runs,
		stats:   stats,
		logger:  logger.With().Str("component", "publish").Logger(),
		timeout: defaultTimeout,
	}
}

// OnLoad writes the run record and, for successful loads, the overview.
// Failures are logged; publishing never affects the served dataset.
func (p *Publisher) OnLoad(ctx context.Context, run model.LoadRun, ds *model.Dataset) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.runs.SaveRun(ctx, run); err != nil {
		p.logger.Error().Err(err).Str("run_id", run.RunID).Msg("publish load run failed")
	}
	if ds == nil || run.Status != model.LoadStatusSuccess {
		return
	}

	ov := dashboard.BuildOverview(ds.Records)
	ov.LastUpdated = ds.LoadedAt
	ov.Fingerprint = ds.Fingerprint
	if err := p.stats.SaveOverview(ctx, ov); err != nil {
		p.logger.Error().Err(err).Str("run_id", run.RunID).Msg("publish overview failed")
		return
	}
	p.logger.Info().
		Str("run_id", run.RunID).
		Int("total_evs", ov.TotalEVs).
		Str("top_city", ov.TopCity.City).
		Msg("overview published")
}
