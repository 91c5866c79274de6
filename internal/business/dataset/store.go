package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/util"
)

// State is the observable state of the Store.
type State struct {
	Loading bool
	Dataset *model.Dataset
	Err     error
}

// Records returns the loaded records, or nil while loading or after a failure.
func (s State) Records() []model.Record {
	if s.Dataset == nil {
		return nil
	}
	return s.Dataset.Records
}

// LoadHook observes the single load of a Store. ds is nil when the load failed.
type LoadHook func(ctx context.Context, run model.LoadRun, ds *model.Dataset)

// Store is the process-wide cache of the parsed dataset. The resource is
// fetched and parsed at most once; every consumer shares the result.
type Store struct {
	source Source
	logger zerolog.Logger

	startOnce sync.Once
	done      chan struct{}

	mu      sync.RWMutex
	loading bool
	dataset *model.Dataset
	err     error
	hooks   []LoadHook
}

// NewStore creates a Store for the given source. Nothing is read until Start or Load.
func NewStore(source Source, logger zerolog.Logger) *Store {
	return &Store{
		source:  source,
		logger:  logger.With().Str("component", "dataset").Logger(),
		done:    make(chan struct{}),
		loading: true,
	}
}

// OnLoad registers a hook that runs once after the load finishes.
// Hooks registered after Start may miss the load.
func (s *Store) OnLoad(h LoadHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Start kicks off the load in the background. Calling it again is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.load(ctx)
	})
}

// Load starts the load if needed and waits for it to finish or for ctx to end.
func (s *Store) Load(ctx context.Context) (*model.Dataset, error) {
	s.Start(ctx)
	select {
	case <-s.done:
		st := s.State()
		return st.Dataset, st.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the load has finished, successfully or not.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// State returns a snapshot of loading, data and error.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Loading: s.loading, Dataset: s.dataset, Err: s.err}
}

func (s *Store) load(ctx context.Context) {
	run := model.LoadRun{
		RunID:     "LOAD_" + uuid.NewString(),
		Source:    s.source.String(),
		Status:    model.LoadStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	s.logger.Info().Str("run_id", run.RunID).Str("source", run.Source).Msg("dataset load started")

	ds, err := s.fetchAndParse(ctx)

	run.FinishedAt = time.Now().UTC()
	if err != nil {
		run.Status = model.LoadStatusFailed
		run.Error = err.Error()
		s.logger.Error().Err(err).Str("run_id", run.RunID).Msg("dataset load failed")
	} else {
		ds.LoadedAt = run.FinishedAt
		run.Status = model.LoadStatusSuccess
		run.Records = len(ds.Records)
		run.Fingerprint = ds.Fingerprint
		s.logger.Info().
			Str("run_id", run.RunID).
			Int("records", run.Records).
			Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
			Msg("dataset loaded")
	}

	s.mu.Lock()
	s.loading = false
	s.dataset = ds
	s.err = err
	hooks := append([]LoadHook(nil), s.hooks...)
	s.mu.Unlock()
	close(s.done)

	for _, h := range hooks {
		h(ctx, run, ds)
	}
}

func (s *Store) fetchAndParse(ctx context.Context) (*model.Dataset, error) {
	body, err := s.source.Open(ctx)
	if err != nil {
		return nil, &LoadError{Kind: ErrNetworkFailure, Err: err}
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &LoadError{Kind: ErrNetworkFailure, Err: fmt.Errorf("read dataset: %w", err)}
	}

	header, records, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &LoadError{Kind: ErrParseFailure, Err: err}
	}

	return &model.Dataset{
		Header:      header,
		Records:     records,
		Source:      s.source.String(),
		Fingerprint: util.HashBytes(raw),
	}, nil
}
