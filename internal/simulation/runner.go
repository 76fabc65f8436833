// Package simulation runs the hourly demand resolution of a set of buildings
// over a simulated year.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Agrid-Dev/rcdemand/internal/demand"
	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/report"
	"github.com/Agrid-Dev/rcdemand/internal/weather"
)

// Result is the outcome of one building. Err is set when the building was
// aborted; Record then holds the hours resolved before the failure.
type Result struct {
	RunID   string
	Record  *record.Record
	Summary report.Summary
	Err     error
}

// Sink receives every result as soon as its building completes. Sinks are
// called from the worker goroutines and must be safe for concurrent use.
type Sink interface {
	Publish(ctx context.Context, res Result) error
}

type Config struct {
	Hours   int // 0 means record.HoursPerYear
	Workers int // 0 means runtime.NumCPU()
	Systems Systems
	Engine  demand.Options
}

type Runner struct {
	cfg     Config
	weather weather.Series
	sinks   []Sink
	logger  *slog.Logger
	runID   string
}

func NewRunner(cfg Config, w weather.Series, logger *slog.Logger, sinks ...Sink) (*Runner, error) {
	if cfg.Hours == 0 {
		cfg.Hours = record.HoursPerYear
	}
	if cfg.Hours < 0 {
		return nil, record.ErrInvalidHours
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Workers < 0 {
		return nil, ErrInvalidWorkers
	}
	if err := cfg.Systems.Validate(); err != nil {
		return nil, err
	}
	if len(w) < cfg.Hours {
		return nil, fmt.Errorf("%w: %d hours for %d", weather.ErrShortSeries, len(w), cfg.Hours)
	}
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &Runner{
		cfg:     cfg,
		weather: w,
		sinks:   sinks,
		logger:  logger.With("run", runID),
		runID:   runID,
	}, nil
}

func (r *Runner) RunID() string {
	return r.runID
}

// Run simulates every building. A building that fails is reported in its
// Result and does not stop the others; only a cancelled context ends the run
// early, in which case the buildings not yet finished are missing from the
// returned results.
func (r *Runner) Run(ctx context.Context, buildings []Building) ([]Result, error) {
	if len(buildings) == 0 {
		return nil, ErrNoBuildings
	}
	seen := make(map[string]bool, len(buildings))
	for i := range buildings {
		if err := buildings[i].Validate(); err != nil {
			return nil, err
		}
		if seen[buildings[i].ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBuilding, buildings[i].ID)
		}
		seen[buildings[i].ID] = true
	}

	start := time.Now()
	results := make([]Result, len(buildings))
	done := make([]bool, len(buildings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range buildings {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := r.simulate(gctx, &buildings[i])
			if err != nil {
				return err
			}
			r.publish(gctx, res)
			results[i] = res
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	finished := make([]Result, 0, len(results))
	for i, res := range results {
		if done[i] {
			finished = append(finished, res)
		}
	}
	r.logger.Info("run finished", "buildings", len(finished), "elapsed", time.Since(start).String())
	if err == nil {
		err = ctx.Err()
	}
	return finished, err
}

// simulate runs the year of one building. The returned error is only set when
// ctx is cancelled; resolution failures are carried by the Result.
func (r *Runner) simulate(ctx context.Context, b *Building) (Result, error) {
	logger := r.logger.With("building", b.ID)
	res := Result{RunID: r.runID}

	rec, err := record.New(b.ID, r.cfg.Hours)
	if err != nil {
		return res, err
	}
	res.Record = rec
	b.Schedule.Apply(rec, b.Properties.FloorArea)
	if err := r.weather.Apply(rec, b.aperture()); err != nil {
		return r.fail(logger, res, 0, err), nil
	}

	collab, err := r.cfg.Systems.collaborators(b)
	if err != nil {
		return r.fail(logger, res, 0, err), nil
	}
	engine, err := demand.New(b.Properties, collab, r.cfg.Engine, logger)
	if err != nil {
		return r.fail(logger, res, 0, err), nil
	}

	logger.Debug("building started", "hours", rec.Hours)
	for t := 0; t < rec.Hours; t++ {
		if t%24 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if err := engine.Resolve(rec, t); err != nil {
			return r.fail(logger, res, t, err), nil
		}
	}

	res.Summary = report.Summarize(rec, rec.Hours)
	res.Summary.RunID = r.runID
	logger.Info("building finished",
		"heating_kwh", res.Summary.HeatingKWh,
		"cooling_kwh", res.Summary.CoolingKWh,
		"unmet_hours", res.Summary.UnmetHeatingHours+res.Summary.UnmetCoolingHours)
	return res, nil
}

func (r *Runner) fail(logger *slog.Logger, res Result, hour int, err error) Result {
	kind := "setup"
	var hourErr *demand.HourError
	if errors.As(err, &hourErr) {
		kind = hourErr.Kind.String()
		hour = hourErr.Hour
	}
	logger.Error("building aborted", "hour", hour, "kind", kind, "err", err)

	res.Err = err
	res.Summary = report.Summarize(res.Record, hour)
	res.Summary.RunID = r.runID
	res.Summary.Failure = &report.Failure{Hour: hour, Kind: kind, Message: err.Error()}
	return res
}

func (r *Runner) publish(ctx context.Context, res Result) {
	for _, s := range r.sinks {
		if err := s.Publish(ctx, res); err != nil {
			r.logger.Warn("publish failed", "building", res.Record.BuildingID, "sink", fmt.Sprintf("%T", s), "err", err)
		}
	}
}
