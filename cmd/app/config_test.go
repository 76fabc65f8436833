package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/simulation"
)

func TestEnvKeyTransform_TopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BUILDINGS", "buildings"},
		{"LOG", "log"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Controllers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CONTROLLERS_HTTP_ADDR", "controllers.http.addr"},
		{"CONTROLLERS_MQTT_PUBLISH_TIMEOUT", "controllers.mqtt.publish_timeout"},
		{"CONTROLLERS_MODBUS_UNIT_ID", "controllers.modbus.unit_id"},
		{"CONTROLLERS_KAFKA_BATCH_HOURS", "controllers.kafka.batch_hours"},
		{"CONTROLLERS_HTTP", "controllers_http"},   // not enough parts -> fallback
		{"CONTROLLERS__ADDR", "controllers..addr"}, // edge case
		{"controllers_HTTP_addr", "controllers.http.addr"},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Sections(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SIMULATION_WORKERS", "simulation.workers"},
		{"SIMULATION_IDLE_WHEN_SATISFIED", "simulation.idle_when_satisfied"},
		{"LOG_LEVEL", "log.level"},
		{"OUTPUT_CSV_DIR", "output.csv_dir"},
		{"WEATHER_FILE", "weather.file"},
		{"WEATHER_SYNTHETIC_MEAN_TEMPERATURE", "weather.synthetic.mean_temperature"},
		{"SCHEDULE_OCCUPIED_FROM", "schedule.occupied_from"},
		{"SCHEDULE_HEATING_SETPOINTS_OCCUPIED", "schedule.heating_setpoints.occupied"},
		{"SCHEDULE_COOLING_SEASON_START", "schedule.cooling_season.start"},
		{"SYSTEMS_AIR_HANDLER_SPECIFIC_FAN_POWER", "systems.air_handler.specific_fan_power"},
		{"SYSTEMS_MAX_LOSS_RATIO", "systems.max_loss_ratio"},
		{"SIMULATION", "simulation"}, // not enough parts -> passthrough
		{"SIMULATION_", "simulation_"},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Simulation.Hours != record.HoursPerYear {
		t.Fatalf("expected default hours, got %d", cfg.Simulation.Hours)
	}
	if cfg.Controllers.HTTP.Addr != ":8080" || !cfg.Controllers.HTTP.Enabled {
		t.Fatalf("expected default http controller, got %+v", cfg.Controllers.HTTP)
	}
	if cfg.Controllers.MQTT.PublishTimeout != 5*time.Second {
		t.Fatalf("expected default publish timeout, got %v", cfg.Controllers.MQTT.PublishTimeout)
	}
	if cfg.Controllers.MODBUS.UnitID != 1 {
		t.Fatalf("expected default unit id, got %d", cfg.Controllers.MODBUS.UnitID)
	}
	if cfg.Schedule.HeatingSetpoints.Occupied != 21 {
		t.Fatalf("expected default heating setpoint, got %v", cfg.Schedule.HeatingSetpoints.Occupied)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

const scenarioYAML = `
log:
  level: debug
simulation:
  hours: 48
  workers: 2
weather:
  synthetic:
    mean_temperature: -5
controllers:
  mqtt:
    enabled: true
    qos: 1
    publish_timeout: 2s
buildings:
  - id: office
    floor_area: 100
    height: 3
    mass_area: 250
    heat_capacity: 16500000
    wall_area: 120
    u_wall: 0.4
    window_area: 30
    u_window: 1.4
    infiltration_flow: 0.05
    heating_system: radiator
    cooling_system: local_ac
    max_heating_per_area: 50
    max_cooling_per_area: 50
  - id: shop
    floor_area: 200
    height: 4
    mass_area: 500
    heat_capacity: 33000000
    infiltration_flow: 0.1
    heating_system: hybrid
    cooling_system: central_ac
    max_heating_per_area: 60
    max_cooling_per_area: 40
    schedule:
      heating_season: {start: 1, end: 365}
      heating_setpoints: {occupied: 19}
      cooling_setpoints: {occupied: 25}
      occupied_from: 8
      occupied_to: 18
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "scenario.yaml", scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Simulation.Hours != 48 || cfg.Simulation.Workers != 2 {
		t.Fatalf("unexpected simulation config: %+v", cfg.Simulation)
	}
	// untouched keys keep their defaults
	if cfg.Weather.Synthetic.MeanTemperature != -5 || cfg.Weather.Synthetic.AnnualAmplitude != 10 {
		t.Fatalf("unexpected synthetic weather: %+v", cfg.Weather.Synthetic)
	}
	if !cfg.Controllers.MQTT.Enabled || cfg.Controllers.MQTT.QoS != 1 || cfg.Controllers.MQTT.PublishTimeout != 2*time.Second {
		t.Fatalf("unexpected mqtt config: %+v", cfg.Controllers.MQTT)
	}
	if cfg.Controllers.MQTT.BaseTopic != "rcdemand" {
		t.Fatalf("expected default base topic, got %q", cfg.Controllers.MQTT.BaseTopic)
	}

	buildings, err := cfg.ToBuildings()
	if err != nil {
		t.Fatal(err)
	}
	if len(buildings) != 2 {
		t.Fatalf("expected 2 buildings, got %d", len(buildings))
	}
	office, shop := buildings[0], buildings[1]
	if office.ID != "office" || office.Properties.HeatingSystem != building.ArchetypeRadiator || office.Properties.CoolingSystem != building.ArchetypeLocalAC {
		t.Fatalf("unexpected office: %+v", office)
	}
	if office.Schedule.HeatingSetpoints.Occupied != 21 {
		t.Fatalf("expected the shared schedule, got %+v", office.Schedule.HeatingSetpoints)
	}
	if shop.Properties.HeatingSystem != building.ArchetypeHybrid || shop.Schedule.HeatingSetpoints.Occupied != 19 || shop.Schedule.OccupiedFrom != 8 {
		t.Fatalf("unexpected shop: %+v", shop)
	}

	w, err := cfg.ToWeather()
	if err != nil {
		t.Fatal(err)
	}
	if len(w) != 48 {
		t.Fatalf("expected 48 weather hours, got %d", len(w))
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "scenario.json", `{"simulation": {"workers": 4}, "controllers": {"http": {"addr": ":9000"}}}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.Workers != 4 || cfg.Controllers.HTTP.Addr != ":9000" {
		t.Fatalf("unexpected config: %+v %+v", cfg.Simulation, cfg.Controllers.HTTP)
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, "scenario.toml", "x = 1")); err == nil {
		t.Fatal("expected error for .toml")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RCDEMAND_SIMULATION_WORKERS", "3")
	t.Setenv("RCDEMAND_CONTROLLERS_HTTP_ADDR", ":9090")
	t.Setenv("RCDEMAND_CONTROLLERS_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RCDEMAND_CONTROLLERS_MQTT_PUBLISH_TIMEOUT", "250ms")

	cfg, err := LoadConfig(writeFile(t, "scenario.yaml", scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.Workers != 3 {
		t.Fatalf("expected env to win over file, got workers=%d", cfg.Simulation.Workers)
	}
	if cfg.Controllers.HTTP.Addr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Controllers.HTTP.Addr)
	}
	if got := cfg.Controllers.Kafka.Brokers; len(got) != 2 || got[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
	if cfg.Controllers.MQTT.PublishTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected publish timeout: %v", cfg.Controllers.MQTT.PublishTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"hours", func(c *Config) { c.Simulation.Hours = 0 }},
		{"workers", func(c *Config) { c.Simulation.Workers = -1 }},
		{"probe power", func(c *Config) { c.Simulation.ProbePowerPerArea = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"qos", func(c *Config) { c.Controllers.MQTT.QoS = 2 }},
		{"kafka brokers", func(c *Config) { c.Controllers.Kafka.Enabled = true }},
		{"systems", func(c *Config) { c.Systems.AirHandler.SupplyTempHeating = 10 }},
		{"schedule", func(c *Config) { c.Schedule.OccupiedTo = 25 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestToBuildings_Errors(t *testing.T) {
	cfg := Default()
	if _, err := cfg.ToBuildings(); !errors.Is(err, simulation.ErrNoBuildings) {
		t.Fatalf("expected ErrNoBuildings, got %v", err)
	}

	cfg.Buildings = []BuildingConfig{{ID: "x", HeatingSystem: "stove"}}
	if _, err := cfg.ToBuildings(); !errors.Is(err, building.ErrInvalidArchetype) {
		t.Fatalf("expected ErrInvalidArchetype, got %v", err)
	}

	cfg.Buildings = []BuildingConfig{{ID: "x", HeatingSystem: "radiator"}}
	if _, err := cfg.ToBuildings(); !errors.Is(err, building.ErrInvalidFloorArea) {
		t.Fatalf("expected ErrInvalidFloorArea, got %v", err)
	}
}

func TestRunnerConfig(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Workers = 2
	rc := cfg.RunnerConfig()
	if rc.Workers != 2 || rc.Hours != record.HoursPerYear || !rc.Engine.IdleWhenSatisfied {
		t.Fatalf("unexpected runner config: %+v", rc)
	}
	if rc.Systems.AirHandler.SupplyTempCooling != 16 {
		t.Fatalf("unexpected systems: %+v", rc.Systems)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "building", "b-1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info must be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"building":"b-1"`) {
		t.Fatalf("expected json attribute, got %s", out)
	}

	if _, err := NewLogger(&buf, LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := NewLogger(&buf, LogConfig{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestToBuildings_Duplicate(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "scenario.yaml", scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Buildings = append(cfg.Buildings, cfg.Buildings[0])
	if _, err := cfg.ToBuildings(); !errors.Is(err, simulation.ErrDuplicateBuilding) {
		t.Fatalf("expected ErrDuplicateBuilding, got %v", err)
	}
}
