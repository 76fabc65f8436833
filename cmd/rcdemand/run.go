package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/Agrid-Dev/rcdemand/cmd/app"
	httpctrl "github.com/Agrid-Dev/rcdemand/internal/controllers/http"
	kafkactrl "github.com/Agrid-Dev/rcdemand/internal/controllers/kafka"
	modbusctrl "github.com/Agrid-Dev/rcdemand/internal/controllers/modbus"
	mqttctrl "github.com/Agrid-Dev/rcdemand/internal/controllers/mqtt"
	"github.com/Agrid-Dev/rcdemand/internal/export"
	"github.com/Agrid-Dev/rcdemand/internal/simulation"
	"github.com/Agrid-Dev/rcdemand/internal/weather"
)

// environment is the loaded scenario shared by every command.
type environment struct {
	cfg       app.Config
	logger    *slog.Logger
	buildings []simulation.Building
	weather   weather.Series
}

func setup(configPath string) (*environment, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := app.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return nil, err
	}
	buildings, err := cfg.ToBuildings()
	if err != nil {
		return nil, err
	}
	w, err := cfg.ToWeather()
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	return &environment{cfg: cfg, logger: logger, buildings: buildings, weather: w}, nil
}

// closer releases a sink once the run is over.
type closer func() error

// fileSinks returns the CSV and YAML exporters enabled in the output section.
func fileSinks(env *environment) ([]simulation.Sink, *export.YAMLSink, error) {
	var sinks []simulation.Sink
	if dir := env.cfg.Output.CSVDir; dir != "" {
		s, err := export.NewCSVSink(dir)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s)
	}
	var report *export.YAMLSink
	if path := env.cfg.Output.ReportFile; path != "" {
		report = export.NewYAMLSink(path)
		sinks = append(sinks, report)
	}
	return sinks, report, nil
}

func kafkaSink(env *environment) (simulation.Sink, closer, error) {
	kc := env.cfg.Controllers.Kafka
	if !kc.Enabled {
		return nil, nil, nil
	}
	p, err := kafkactrl.New(kafkactrl.Config{
		Brokers:    kc.Brokers,
		Topic:      kc.Topic,
		BatchHours: kc.BatchHours,
	}, env.logger)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

func mqttConfig(c app.MQTTConfig) mqttctrl.Config {
	return mqttctrl.Config{
		BrokerURL:      c.BrokerURL,
		ClientID:       c.ClientID,
		BaseTopic:      c.BaseTopic,
		QoS:            c.QoS,
		RetainSummary:  c.RetainSummary,
		PublishTimeout: c.PublishTimeout,
		Username:       c.Username,
		Password:       c.Password,
	}
}

// simulate runs every building through the given sinks and flushes the
// YAML report. It returns an error when a building failed.
func simulate(ctx context.Context, env *environment, store *simulation.Store, extra ...simulation.Sink) (string, error) {
	sinks, report, err := fileSinks(env)
	if err != nil {
		return "", err
	}
	sinks = append(sinks, store)
	sinks = append(sinks, extra...)

	runner, err := simulation.NewRunner(env.cfg.RunnerConfig(), env.weather, env.logger, sinks...)
	if err != nil {
		return "", err
	}
	results, err := runner.Run(ctx, env.buildings)
	if err != nil {
		return runner.RunID(), err
	}

	if report != nil {
		if err := report.Flush(); err != nil {
			return runner.RunID(), err
		}
		env.logger.Info("report written", "path", env.cfg.Output.ReportFile)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return runner.RunID(), fmt.Errorf("%d of %d buildings failed", failed, len(results))
	}
	return runner.RunID(), nil
}

func runSimulate(ctx context.Context, env *environment) error {
	var extra []simulation.Sink
	store := simulation.NewStore()

	ks, closeKafka, err := kafkaSink(env)
	if err != nil {
		return err
	}
	if ks != nil {
		defer closeKafka()
		extra = append(extra, ks)
	}

	if env.cfg.Controllers.MQTT.Enabled {
		mq, err := mqttctrl.New(store, mqttConfig(env.cfg.Controllers.MQTT))
		if err != nil {
			return err
		}
		if err := mq.Connect(ctx); err != nil {
			return err
		}
		defer mq.Close()
		extra = append(extra, mq)
	}

	_, err = simulate(ctx, env, store, extra...)
	return err
}

// runServe starts the HTTP and Modbus controllers, simulates the scenario
// into the shared store, then publishes it over MQTT. Controllers keep
// serving until ctx is cancelled.
func runServe(ctx context.Context, env *environment) error {
	store := simulation.NewStore()
	g, gctx := errgroup.WithContext(ctx)

	if c := env.cfg.Controllers.HTTP; c.Enabled {
		g.Go(func() error {
			env.logger.Info("http listening", "addr", c.Addr)
			return ignoreCanceled(httpctrl.New(store, c.Addr).Run(gctx))
		})
	}
	if c := env.cfg.Controllers.MODBUS; c.Enabled {
		mb, err := modbusctrl.New(store, modbusctrl.Config{Addr: c.Addr, UnitID: c.UnitID})
		if err != nil {
			return err
		}
		g.Go(func() error {
			env.logger.Info("modbus listening", "addr", c.Addr, "unit_id", c.UnitID)
			return ignoreCanceled(mb.Run(gctx))
		})
	}

	g.Go(func() error {
		var extra []simulation.Sink
		ks, closeKafka, err := kafkaSink(env)
		if err != nil {
			return err
		}
		if ks != nil {
			defer closeKafka()
			extra = append(extra, ks)
		}

		if _, err := simulate(gctx, env, store, extra...); err != nil {
			// failed buildings stay visible through the controllers
			env.logger.Error("simulation finished with errors", "err", err)
			if gctx.Err() != nil {
				return ignoreCanceled(gctx.Err())
			}
		}

		if c := env.cfg.Controllers.MQTT; c.Enabled {
			mq, err := mqttctrl.New(store, mqttConfig(c))
			if err != nil {
				return err
			}
			return ignoreCanceled(mq.Run(gctx))
		}
		return nil
	})

	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runValidate(out io.Writer, env *environment) error {
	// NewRunner validates the mechanical systems and the weather length.
	if _, err := simulation.NewRunner(env.cfg.RunnerConfig(), env.weather, env.logger); err != nil {
		return err
	}
	for _, b := range env.buildings {
		fmt.Fprintf(out, "%-20s heating=%-10s cooling=%-10s floor_area=%.0f m2\n",
			b.ID, b.Properties.HeatingSystem, b.Properties.CoolingSystem, b.Properties.FloorArea)
	}
	fmt.Fprintf(out, "%d buildings, %d weather hours: OK\n", len(env.buildings), len(env.weather))
	return nil
}
