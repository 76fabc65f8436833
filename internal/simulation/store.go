package simulation

import (
	"context"
	"sort"
	"sync"

	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/report"
)

// Store keeps the latest result of every building in memory and serves them
// to the controllers.
type Store struct {
	mu      sync.RWMutex
	results map[string]Result
}

func NewStore() *Store {
	return &Store{results: make(map[string]Result)}
}

func (s *Store) Publish(_ context.Context, res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.Record.BuildingID] = res
	return nil
}

// Summaries returns every summary ordered by building id.
func (s *Store) Summaries() []report.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]report.Summary, 0, len(s.results))
	for _, res := range s.results {
		out = append(out, res.Summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BuildingID < out[j].BuildingID })
	return out
}

func (s *Store) Summary(buildingID string) (report.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[buildingID]
	return res.Summary, ok
}

func (s *Store) Record(buildingID string) (*record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[buildingID]
	if !ok {
		return nil, false
	}
	return res.Record, true
}
