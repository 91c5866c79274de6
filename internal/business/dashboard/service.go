package dashboard

import (
	"errors"
	"sync"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// ErrLoading is returned while the dataset has not finished loading.
var ErrLoading = errors.New("dataset is still loading")

// StateSource exposes the dataset load state. *dataset.Store implements it.
type StateSource interface {
	State() dataset.State
}

// Service answers dashboard queries against the loaded dataset. Filter
// options and the overview depend only on the dataset and are computed once.
type Service struct {
	source StateSource
	topN   int

	mu    sync.Mutex
	cache *derivedCache
}

type derivedCache struct {
	ds *model.Dataset

	filtersOnce sync.Once
	filters     []model.FilterCategory

	overviewOnce sync.Once
	overview     model.Overview
}

func NewService(source StateSource, topN int) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Service{source: source, topN: topN}
}

func (s *Service) TopN() int { return s.topN }

// State exposes the underlying load state.
func (s *Service) State() dataset.State { return s.source.State() }

// Dataset returns the loaded dataset, ErrLoading, or the terminal load error.
func (s *Service) Dataset() (*model.Dataset, error) {
	st := s.source.State()
	switch {
	case st.Loading:
		return nil, ErrLoading
	case st.Err != nil:
		return nil, st.Err
	case st.Dataset == nil:
		return nil, ErrLoading
	}
	return st.Dataset, nil
}

func (s *Service) cacheFor(ds *model.Dataset) *derivedCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil || s.cache.ds != ds {
		s.cache = &derivedCache{ds: ds}
	}
	return s.cache
}

// Filters returns the selectable options per attribute.
func (s *Service) Filters() ([]model.FilterCategory, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	c := s.cacheFor(ds)
	c.filtersOnce.Do(func() {
		c.filters = DeriveFilters(ds.Records)
	})
	return c.filters, nil
}

// Overview returns the whole-dataset headline numbers.
func (s *Service) Overview() (model.Overview, error) {
	ds, err := s.Dataset()
	if err != nil {
		return model.Overview{}, err
	}
	c := s.cacheFor(ds)
	c.overviewOnce.Do(func() {
		c.overview = BuildOverview(ds.Records)
		c.overview.LastUpdated = ds.LoadedAt
		c.overview.Fingerprint = ds.Fingerprint
	})
	return c.overview, nil
}

// Dashboard computes the aggregate views for criteria.
func (s *Service) Dashboard(criteria Criteria) (model.Dashboard, error) {
	ds, err := s.Dataset()
	if err != nil {
		return model.Dashboard{}, err
	}
	d := Build(ds.Records, criteria, s.topN)
	d.DatasetFingerprint = ds.Fingerprint
	return d, nil
}

// Records returns the dataset header and the records matching criteria.
func (s *Service) Records(criteria Criteria) ([]string, []model.Record, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, nil, err
	}
	return ds.Header, Filter(ds.Records, criteria), nil
}
