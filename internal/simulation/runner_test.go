package simulation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/demand"
	"github.com/Agrid-Dev/rcdemand/internal/schedule"
	"github.com/Agrid-Dev/rcdemand/internal/weather"
)

const twoWeeks = 14 * 24

func coldWeather(t *testing.T) weather.Series {
	t.Helper()
	w, err := weather.Synthetic(weather.SyntheticParams{
		MeanTemperature:  -10,
		DailyAmplitude:   2,
		RelativeHumidity: 0.8,
	}, twoWeeks)
	require.NoError(t, err)
	return w
}

func testBuilding(id string, heating building.Archetype) Building {
	s := schedule.Default()
	s.HeatingSetpoints = schedule.Setpoints{Occupied: 21, Unoccupied: 21, Setback: true}
	return Building{
		ID: id,
		Properties: building.Properties{
			FloorArea:              100,
			Height:                 3,
			MassArea:               250,
			HeatCapacity:           16.5e6,
			WallArea:               120,
			UWall:                  0.3,
			RoofArea:               100,
			URoof:                  0.2,
			BaseArea:               100,
			UBase:                  0.4,
			WindowArea:             30,
			UWindow:                1.2,
			InfiltrationFlow:       0.02,
			HeatRecoveryEfficiency: 0.7,
			HeatingSystem:          heating,
			CoolingSystem:          building.ArchetypeLocalAC,
			MaxHeatingPerArea:      50,
			MaxCoolingPerArea:      40,
			EmissionDeltaHeating:   1.2,
		},
		Schedule: s,
	}
}

type recordingSink struct {
	mu      sync.Mutex
	results []Result
	err     error
}

func (s *recordingSink) Publish(_ context.Context, res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
	return s.err
}

func newRunner(t *testing.T, sinks ...Sink) *Runner {
	t.Helper()
	r, err := NewRunner(Config{Hours: twoWeeks, Workers: 2, Systems: DefaultSystems()},
		coldWeather(t), slog.New(slog.NewTextHandler(io.Discard, nil)), sinks...)
	require.NoError(t, err)
	return r
}

func TestRunner_RunsEveryBuilding(t *testing.T) {
	store := NewStore()
	sink := &recordingSink{}
	r := newRunner(t, store, sink)

	results, err := r.Run(context.Background(), []Building{
		testBuilding("b-radiator", building.ArchetypeRadiator),
		testBuilding("b-central", building.ArchetypeCentralAC),
		testBuilding("b-hybrid", building.ArchetypeHybrid),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, r.RunID(), res.RunID)
		assert.Equal(t, r.RunID(), res.Summary.RunID)
		assert.True(t, res.Summary.Completed)
		assert.Nil(t, res.Summary.Failure)
		assert.Equal(t, twoWeeks, res.Summary.Hours)
		assert.Greater(t, res.Summary.HeatingKWh, 0.0)
		assert.Zero(t, res.Summary.CoolingKWh)
		for h := 0; h < res.Record.Hours; h++ {
			require.NoError(t, res.Record.Complete(h))
		}
	}

	assert.Len(t, sink.results, 3)
	summaries := store.Summaries()
	require.Len(t, summaries, 3)
	assert.Equal(t, "b-central", summaries[0].BuildingID)
	assert.Equal(t, "b-hybrid", summaries[1].BuildingID)
	assert.Equal(t, "b-radiator", summaries[2].BuildingID)

	rec, ok := store.Record("b-hybrid")
	require.True(t, ok)
	assert.Equal(t, "b-hybrid", rec.BuildingID)
	_, ok = store.Summary("missing")
	assert.False(t, ok)
}

func TestRunner_FailureIsolation(t *testing.T) {
	hot := testBuilding("b-hot", building.ArchetypeRadiator)
	hot.Schedule.InternalGains = 200

	store := NewStore()
	r := newRunner(t, store)
	results, err := r.Run(context.Background(), []Building{
		testBuilding("b-ok", building.ArchetypeRadiator),
		hot,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	ok, failed := results[0], results[1]
	require.NoError(t, ok.Err)
	assert.True(t, ok.Summary.Completed)

	require.ErrorIs(t, failed.Err, demand.ErrCapacityInconsistency)
	require.NotNil(t, failed.Summary.Failure)
	assert.Equal(t, "capacity_inconsistency", failed.Summary.Failure.Kind)
	assert.Equal(t, schedule.Default().OccupiedFrom, failed.Summary.Failure.Hour)
	assert.False(t, failed.Summary.Completed)
	assert.Equal(t, failed.Summary.Failure.Hour, failed.Summary.Hours)

	summary, found := store.Summary("b-hot")
	require.True(t, found)
	assert.NotNil(t, summary.Failure)
}

func TestRunner_Cancelled(t *testing.T) {
	r := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := r.Run(ctx, []Building{testBuilding("b", building.ArchetypeRadiator)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunner_PublishErrorsDoNotAbort(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	r := newRunner(t, sink)

	results, err := r.Run(context.Background(), []Building{testBuilding("b", building.ArchetypeRadiator)})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Len(t, sink.results, 1)
}

func TestRunner_Validation(t *testing.T) {
	r := newRunner(t)

	_, err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoBuildings)

	_, err = r.Run(context.Background(), []Building{
		testBuilding("b", building.ArchetypeRadiator),
		testBuilding("b", building.ArchetypeLocalAC),
	})
	assert.ErrorIs(t, err, ErrDuplicateBuilding)

	bad := testBuilding("", building.ArchetypeRadiator)
	_, err = r.Run(context.Background(), []Building{bad})
	assert.ErrorIs(t, err, ErrEmptyBuildingID)

	bad = testBuilding("b", building.ArchetypeRadiator)
	bad.Properties.FloorArea = 0
	_, err = r.Run(context.Background(), []Building{bad})
	assert.ErrorIs(t, err, building.ErrInvalidFloorArea)
}

func TestNewRunner_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewRunner(Config{Hours: twoWeeks + 1, Systems: DefaultSystems()}, coldWeather(t), logger)
	assert.ErrorIs(t, err, weather.ErrShortSeries)

	_, err = NewRunner(Config{Hours: twoWeeks, Workers: -1, Systems: DefaultSystems()}, coldWeather(t), logger)
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	systems := DefaultSystems()
	systems.MaxRelativeHumidity = 0
	_, err = NewRunner(Config{Hours: twoWeeks, Systems: systems}, coldWeather(t), logger)
	assert.Error(t, err)
}
