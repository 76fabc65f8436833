package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/demand"
	"github.com/Agrid-Dev/rcdemand/internal/hvac"
	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/schedule"
	"github.com/Agrid-Dev/rcdemand/internal/simulation"
	"github.com/Agrid-Dev/rcdemand/internal/weather"
)

// EnvPrefix prefixes every environment override, e.g. RCDEMAND_SIMULATION_WORKERS.
const EnvPrefix = "RCDEMAND_"

type Config struct {
	Log         LogConfig        `koanf:"log"`
	Simulation  SimulationConfig `koanf:"simulation"`
	Weather     WeatherConfig    `koanf:"weather"`
	Schedule    ScheduleConfig   `koanf:"schedule"`
	Systems     SystemsConfig    `koanf:"systems"`
	Output      OutputConfig     `koanf:"output"`
	Controllers struct {
		HTTP   HTTPConfig   `koanf:"http"`
		MQTT   MQTTConfig   `koanf:"mqtt"`
		MODBUS ModbusConfig `koanf:"modbus"`
		Kafka  KafkaConfig  `koanf:"kafka"`
	} `koanf:"controllers"`

	Buildings []BuildingConfig `koanf:"buildings"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `koanf:"format"` // "text" | "json"
}

type SimulationConfig struct {
	Hours             int     `koanf:"hours"`
	Workers           int     `koanf:"workers"`
	ProbePowerPerArea float64 `koanf:"probe_power_per_area"`
	IdleWhenSatisfied bool    `koanf:"idle_when_satisfied"`
}

// WeatherConfig reads File when set, otherwise generates a synthetic year.
type WeatherConfig struct {
	File      string          `koanf:"file"`
	Synthetic SyntheticConfig `koanf:"synthetic"`
}

type SyntheticConfig struct {
	MeanTemperature  float64 `koanf:"mean_temperature"`
	AnnualAmplitude  float64 `koanf:"annual_amplitude"`
	DailyAmplitude   float64 `koanf:"daily_amplitude"`
	ColdestDay       int     `koanf:"coldest_day"`
	RelativeHumidity float64 `koanf:"relative_humidity"`
	HumiditySwing    float64 `koanf:"humidity_swing"`
	PeakSolar        float64 `koanf:"peak_solar"`
	WinterSolarRatio float64 `koanf:"winter_solar_ratio"`
}

type SeasonConfig struct {
	Start int `koanf:"start"`
	End   int `koanf:"end"`
}

type SetpointsConfig struct {
	Occupied   float64 `koanf:"occupied"`
	Unoccupied float64 `koanf:"unoccupied"`
	Setback    bool    `koanf:"setback"`
}

type ScheduleConfig struct {
	HeatingSeason       SeasonConfig    `koanf:"heating_season"`
	CoolingSeason       SeasonConfig    `koanf:"cooling_season"`
	HeatingSetpoints    SetpointsConfig `koanf:"heating_setpoints"`
	CoolingSetpoints    SetpointsConfig `koanf:"cooling_setpoints"`
	OccupiedFrom        int             `koanf:"occupied_from"`
	OccupiedTo          int             `koanf:"occupied_to"`
	InternalGains       float64         `koanf:"internal_gains"`
	BaseGains           float64         `koanf:"base_gains"`
	Ventilation         float64         `koanf:"ventilation"`
	MoistureGain        float64         `koanf:"moisture_gain"`
	VentilateUnoccupied bool            `koanf:"ventilate_unoccupied"`
}

type AirHandlerConfig struct {
	SupplyTempHeating float64 `koanf:"supply_temp_heating"`
	SupplyTempCooling float64 `koanf:"supply_temp_cooling"`
	SpecificFanPower  float64 `koanf:"specific_fan_power"`
}

type RecirculationConfig struct {
	SupplyTempHeating float64 `koanf:"supply_temp_heating"`
	SupplyTempCooling float64 `koanf:"supply_temp_cooling"`
	MinFlow           float64 `koanf:"min_flow"`
	SpecificFanPower  float64 `koanf:"specific_fan_power"`
}

type SystemsConfig struct {
	AirHandler          AirHandlerConfig    `koanf:"air_handler"`
	Recirculation       RecirculationConfig `koanf:"recirculation"`
	MaxLossRatio        float64             `koanf:"max_loss_ratio"`
	MaxRelativeHumidity float64             `koanf:"max_relative_humidity"`
}

// OutputConfig enables the file exports; empty paths disable them.
type OutputConfig struct {
	CSVDir     string `koanf:"csv_dir"`
	ReportFile string `koanf:"report_file"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled        bool          `koanf:"enabled"`
	BrokerURL      string        `koanf:"broker_url"`
	ClientID       string        `koanf:"client_id"`
	BaseTopic      string        `koanf:"base_topic"`
	QoS            byte          `koanf:"qos"`
	RetainSummary  bool          `koanf:"retain_summary"`
	PublishTimeout time.Duration `koanf:"publish_timeout"`
	Username       string        `koanf:"username"`
	Password       string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	UnitID  byte   `koanf:"unit_id"`
}

type KafkaConfig struct {
	Enabled    bool     `koanf:"enabled"`
	Brokers    []string `koanf:"brokers"`
	Topic      string   `koanf:"topic"`
	BatchHours int      `koanf:"batch_hours"`
}

// BuildingConfig describes one building in the scenario file. Schedule, when
// present, replaces the shared schedule for this building.
type BuildingConfig struct {
	ID string `koanf:"id"`

	FloorArea           float64 `koanf:"floor_area"`
	Height              float64 `koanf:"height"`
	MassArea            float64 `koanf:"mass_area"`
	InternalSurfaceArea float64 `koanf:"internal_surface_area"`
	HeatCapacity        float64 `koanf:"heat_capacity"`

	WallArea     float64 `koanf:"wall_area"`
	UWall        float64 `koanf:"u_wall"`
	RoofArea     float64 `koanf:"roof_area"`
	URoof        float64 `koanf:"u_roof"`
	BaseArea     float64 `koanf:"base_area"`
	UBase        float64 `koanf:"u_base"`
	GroundFactor float64 `koanf:"ground_factor"`
	WindowArea   float64 `koanf:"window_area"`
	UWindow      float64 `koanf:"u_window"`

	InfiltrationFlow       float64 `koanf:"infiltration_flow"`
	HeatRecoveryEfficiency float64 `koanf:"heat_recovery_efficiency"`

	HeatingSystem     string  `koanf:"heating_system"` // "none" | "radiator" | "local_ac" | "central_ac" | "hybrid"
	CoolingSystem     string  `koanf:"cooling_system"`
	MaxHeatingPerArea float64 `koanf:"max_heating_per_area"`
	MaxCoolingPerArea float64 `koanf:"max_cooling_per_area"`

	EmissionDeltaHeating float64 `koanf:"emission_delta_heating"`
	EmissionDeltaCooling float64 `koanf:"emission_delta_cooling"`

	Aperture           float64         `koanf:"aperture"`
	InitialTemperature float64         `koanf:"initial_temperature"`
	Schedule           *ScheduleConfig `koanf:"schedule"`
}

// Default returns the configuration used for every key absent from the file
// and the environment.
func Default() Config {
	var cfg Config
	cfg.Log = LogConfig{Level: "info", Format: "text"}
	cfg.Simulation = SimulationConfig{
		Hours:             record.HoursPerYear,
		ProbePowerPerArea: demand.DefaultProbePowerPerArea,
		IdleWhenSatisfied: true,
	}

	w := weather.DefaultSyntheticParams()
	cfg.Weather.Synthetic = SyntheticConfig(w)

	cfg.Schedule = scheduleConfig(schedule.Default())

	sys := simulation.DefaultSystems()
	cfg.Systems = SystemsConfig{
		AirHandler:          AirHandlerConfig(sys.AirHandler),
		Recirculation:       RecirculationConfig(sys.Recirculation),
		MaxLossRatio:        sys.MaxLossRatio,
		MaxRelativeHumidity: sys.MaxRelativeHumidity,
	}

	cfg.Controllers.HTTP = HTTPConfig{Enabled: true, Addr: ":8080"}
	cfg.Controllers.MQTT = MQTTConfig{
		BrokerURL:      "tcp://localhost:1883",
		ClientID:       "rcdemand-publisher",
		BaseTopic:      "rcdemand",
		PublishTimeout: 5 * time.Second,
	}
	cfg.Controllers.MODBUS = ModbusConfig{Addr: "127.0.0.1:1502", UnitID: 1}
	cfg.Controllers.Kafka = KafkaConfig{Topic: "rcdemand.hours", BatchHours: 168}
	return cfg
}

// LoadConfig layers defaults, the optional file at path and RCDEMAND_*
// environment variables, in that order. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return Config{}, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = envKeyTransform(strings.TrimPrefix(key, EnvPrefix))
			if _, ok := listKeys[key]; ok {
				return key, strings.Split(value, ",")
			}
			return key, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
}

// listKeys are the keys whose environment value is a comma separated list.
var listKeys = map[string]struct{}{
	"controllers.kafka.brokers": {},
}

// sectionPrefixes maps multi-word sections to their key path, longest first.
var sectionPrefixes = []struct {
	env string
	key string
}{
	{"schedule_heating_setpoints_", "schedule.heating_setpoints."},
	{"schedule_cooling_setpoints_", "schedule.cooling_setpoints."},
	{"schedule_heating_season_", "schedule.heating_season."},
	{"schedule_cooling_season_", "schedule.cooling_season."},
	{"systems_air_handler_", "systems.air_handler."},
	{"systems_recirculation_", "systems.recirculation."},
	{"weather_synthetic_", "weather.synthetic."},
	{"simulation_", "simulation."},
	{"schedule_", "schedule."},
	{"systems_", "systems."},
	{"weather_", "weather."},
	{"output_", "output."},
	{"log_", "log."},
}

// envKeyTransform maps an environment variable name, without prefix, to a
// koanf key: CONTROLLERS_HTTP_ADDR -> controllers.http.addr,
// SIMULATION_WORKERS -> simulation.workers.
func envKeyTransform(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	parts := strings.Split(s, "_")
	if parts[0] == "controllers" {
		// controllers.<controller>.<field>
		if len(parts) < 3 {
			return s
		}
		return "controllers." + parts[1] + "." + strings.Join(parts[2:], "_")
	}

	for _, p := range sectionPrefixes {
		if strings.HasPrefix(s, p.env) && len(s) > len(p.env) {
			return p.key + strings.TrimPrefix(s, p.env)
		}
	}
	return s
}

func (c Config) Validate() error {
	if c.Simulation.Hours <= 0 {
		return record.ErrInvalidHours
	}
	if c.Simulation.Workers < 0 {
		return simulation.ErrInvalidWorkers
	}
	if !(c.Simulation.ProbePowerPerArea > 0) {
		return demand.ErrInvalidProbePower
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.Controllers.MQTT.QoS > 1 {
		return errors.New("mqtt: QoS must be 0 or 1")
	}
	if c.Controllers.Kafka.Enabled && len(c.Controllers.Kafka.Brokers) == 0 {
		return errors.New("kafka: at least one broker is required")
	}
	sys := c.ToSystems()
	if err := sys.Validate(); err != nil {
		return err
	}
	sched := c.ToSchedule()
	if err := sched.Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}

// RunnerConfig returns the simulation runner settings.
func (c Config) RunnerConfig() simulation.Config {
	return simulation.Config{
		Hours:   c.Simulation.Hours,
		Workers: c.Simulation.Workers,
		Systems: c.ToSystems(),
		Engine: demand.Options{
			ProbePowerPerArea: c.Simulation.ProbePowerPerArea,
			IdleWhenSatisfied: c.Simulation.IdleWhenSatisfied,
		},
	}
}

func (c Config) ToSystems() simulation.Systems {
	return simulation.Systems{
		AirHandler:          hvac.AirHandlerParams(c.Systems.AirHandler),
		Recirculation:       hvac.RecirculationParams(c.Systems.Recirculation),
		MaxLossRatio:        c.Systems.MaxLossRatio,
		MaxRelativeHumidity: c.Systems.MaxRelativeHumidity,
	}
}

func (c Config) ToSchedule() schedule.Schedule {
	return c.Schedule.schedule()
}

// ToWeather loads the weather file, or generates the synthetic year.
func (c Config) ToWeather() (weather.Series, error) {
	if c.Weather.File != "" {
		return weather.LoadCSV(c.Weather.File)
	}
	return weather.Synthetic(weather.SyntheticParams(c.Weather.Synthetic), c.Simulation.Hours)
}

// ToBuildings converts and validates the building list.
func (c Config) ToBuildings() ([]simulation.Building, error) {
	if len(c.Buildings) == 0 {
		return nil, simulation.ErrNoBuildings
	}
	shared := c.ToSchedule()
	out := make([]simulation.Building, 0, len(c.Buildings))
	seen := make(map[string]bool, len(c.Buildings))
	for i, bc := range c.Buildings {
		b, err := bc.building(shared)
		if err != nil {
			return nil, fmt.Errorf("buildings[%d]: %w", i, err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("buildings[%d]: %w", i, err)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("buildings[%d]: %w: %s", i, simulation.ErrDuplicateBuilding, b.ID)
		}
		seen[b.ID] = true
		out = append(out, b)
	}
	return out, nil
}

func (bc BuildingConfig) building(shared schedule.Schedule) (simulation.Building, error) {
	heating, err := building.ParseArchetype(bc.HeatingSystem)
	if err != nil {
		return simulation.Building{}, fmt.Errorf("heating_system: %w", err)
	}
	cooling, err := building.ParseArchetype(bc.CoolingSystem)
	if err != nil {
		return simulation.Building{}, fmt.Errorf("cooling_system: %w", err)
	}

	sched := shared
	if bc.Schedule != nil {
		sched = bc.Schedule.schedule()
	}

	return simulation.Building{
		ID: bc.ID,
		Properties: building.Properties{
			FloorArea:              bc.FloorArea,
			Height:                 bc.Height,
			MassArea:               bc.MassArea,
			InternalSurfaceArea:    bc.InternalSurfaceArea,
			HeatCapacity:           bc.HeatCapacity,
			WallArea:               bc.WallArea,
			UWall:                  bc.UWall,
			RoofArea:               bc.RoofArea,
			URoof:                  bc.URoof,
			BaseArea:               bc.BaseArea,
			UBase:                  bc.UBase,
			GroundFactor:           bc.GroundFactor,
			WindowArea:             bc.WindowArea,
			UWindow:                bc.UWindow,
			InfiltrationFlow:       bc.InfiltrationFlow,
			HeatRecoveryEfficiency: bc.HeatRecoveryEfficiency,
			HeatingSystem:          heating,
			CoolingSystem:          cooling,
			MaxHeatingPerArea:      bc.MaxHeatingPerArea,
			MaxCoolingPerArea:      bc.MaxCoolingPerArea,
			EmissionDeltaHeating:   bc.EmissionDeltaHeating,
			EmissionDeltaCooling:   bc.EmissionDeltaCooling,
		},
		Schedule:           sched,
		Aperture:           bc.Aperture,
		InitialTemperature: bc.InitialTemperature,
	}, nil
}

func (sc ScheduleConfig) schedule() schedule.Schedule {
	return schedule.Schedule{
		Heating:             schedule.Season(sc.HeatingSeason),
		Cooling:             schedule.Season(sc.CoolingSeason),
		HeatingSetpoints:    schedule.Setpoints(sc.HeatingSetpoints),
		CoolingSetpoints:    schedule.Setpoints(sc.CoolingSetpoints),
		OccupiedFrom:        sc.OccupiedFrom,
		OccupiedTo:          sc.OccupiedTo,
		InternalGains:       sc.InternalGains,
		BaseGains:           sc.BaseGains,
		Ventilation:         sc.Ventilation,
		MoistureGain:        sc.MoistureGain,
		VentilateUnoccupied: sc.VentilateUnoccupied,
	}
}

func scheduleConfig(s schedule.Schedule) ScheduleConfig {
	return ScheduleConfig{
		HeatingSeason:       SeasonConfig(s.Heating),
		CoolingSeason:       SeasonConfig(s.Cooling),
		HeatingSetpoints:    SetpointsConfig(s.HeatingSetpoints),
		CoolingSetpoints:    SetpointsConfig(s.CoolingSetpoints),
		OccupiedFrom:        s.OccupiedFrom,
		OccupiedTo:          s.OccupiedTo,
		InternalGains:       s.InternalGains,
		BaseGains:           s.BaseGains,
		Ventilation:         s.Ventilation,
		MoistureGain:        s.MoistureGain,
		VentilateUnoccupied: s.VentilateUnoccupied,
	}
}
