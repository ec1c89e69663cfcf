package app

import (
	"fmt"
	"math"
	"net/http"
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

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
	"github.com/cc0ffee/greenhouse-sim/internal/weather"
)

// EnvPrefix marks environment variables read by LoadConfig.
const EnvPrefix = "GREENHOUSE_"

type Config struct {
	SiteID      string            `koanf:"site_id"`
	Controllers ControllersConfig `koanf:"controllers"`
	Weather     WeatherConfig     `koanf:"weather"`
	Greenhouse  GreenhouseConfig  `koanf:"greenhouse"`
}

type ControllersConfig struct {
	HTTP   HTTPConfig   `koanf:"http"`
	MQTT   MQTTConfig   `koanf:"mqtt"`
	Modbus ModbusConfig `koanf:"modbus"`
}

type HTTPConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Addr           string   `koanf:"addr"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type MQTTConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BrokerURL       string        `koanf:"broker_url"`
	ClientID        string        `koanf:"client_id"`
	BaseTopic       string        `koanf:"base_topic"`
	QoS             byte          `koanf:"qos"`
	RetainLatest    bool          `koanf:"retain_latest"`
	PublishInterval time.Duration `koanf:"publish_interval"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	UnitID  byte   `koanf:"unit_id"`
}

type WeatherConfig struct {
	Provider    string        `koanf:"provider"` // "weatherapi" | "csv"
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Timeout     time.Duration `koanf:"timeout"`
	UserAgent   string        `koanf:"user_agent"`
	CSVPath     string        `koanf:"csv_path"`
	CSVTimeZone string        `koanf:"csv_timezone"`
}

type GreenhouseConfig struct {
	Area          float64        `koanf:"area"`
	UDay          float64        `koanf:"u_day"`
	UNight        float64        `koanf:"u_night"`
	ThermalMass   float64        `koanf:"thermal_mass"`
	Layers        []LayerConfig  `koanf:"layers"`
	MaterialsFile string         `koanf:"materials_file"`
	Step          time.Duration  `koanf:"step"`
	MaxDays       int            `koanf:"max_days"`
	Concurrency   int            `koanf:"concurrency"`
	Solar         SolarConfig    `koanf:"solar"`
	Heating       HeatingConfig  `koanf:"heating"`
	Clamp         ClampConfig    `koanf:"clamp"`
	Daylight      DaylightConfig `koanf:"daylight"`
}

// LayerConfig is one slab of the thermal mass, e.g. {material: steel, volume: 2.5}.
type LayerConfig struct {
	Material string  `koanf:"material"`
	Volume   float64 `koanf:"volume"`
}

type SolarConfig struct {
	Irradiance             float64 `koanf:"irradiance"`
	CollectionArea         float64 `koanf:"collection_area"`
	TransmissionEfficiency float64 `koanf:"transmission_efficiency"`
}

type HeatingConfig struct {
	CirculationPower float64 `koanf:"circulation_power"`
	StoragePower     float64 `koanf:"storage_power"`
	Efficiency       float64 `koanf:"efficiency"`
}

type ClampConfig struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

type DaylightConfig struct {
	Mode  string  `koanf:"mode"` // "fixed" | "astronomical"
	Start float64 `koanf:"start"`
	End   float64 `koanf:"end"`
}

// DefaultConfig is the reference greenhouse served on :8080.
func DefaultConfig() Config {
	return Config{
		SiteID: "default",
		Controllers: ControllersConfig{
			HTTP: HTTPConfig{Addr: ":8080", AllowedOrigins: []string{"http://localhost:3000"}},
			MQTT: MQTTConfig{
				BrokerURL:       "tcp://localhost:1883",
				PublishInterval: time.Second,
				RequestTimeout:  2 * time.Minute,
			},
			Modbus: ModbusConfig{Addr: "127.0.0.1:1502", UnitID: 1},
		},
		Weather: WeatherConfig{
			Provider:    "weatherapi",
			BaseURL:     weather.DefaultBaseURL,
			Timeout:     30 * time.Second,
			UserAgent:   weather.DefaultUserAgent,
			CSVTimeZone: "UTC",
		},
		Greenhouse: GreenhouseConfig{
			Area:        100,
			UDay:        1.82,
			UNight:      1.96,
			ThermalMass: 193370,
			Layers:      []LayerConfig{},
			Step:        time.Hour,
			MaxDays:     simulation.DefaultMaxDays,
			Concurrency: simulation.DefaultConcurrency,
			Solar:       SolarConfig{Irradiance: 150, CollectionArea: 100, TransmissionEfficiency: 0.6},
			Heating:     HeatingConfig{CirculationPower: 7000, StoragePower: 7000, Efficiency: 0.8},
			Clamp:       ClampConfig{Min: greenhouse.DefaultBounds.Min, Max: greenhouse.DefaultBounds.Max},
			Daylight: DaylightConfig{
				Mode:  string(simulation.DaylightFixed),
				Start: greenhouse.DefaultDaylight.Start,
				End:   greenhouse.DefaultDaylight.End,
			},
		},
	}
}

// LoadConfig layers defaults, the config file (if present) and
// GREENHOUSE_* environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			// Config file missing → use defaults
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config extension %q", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("parse %s: %w", ext, err)
	}
	return nil
}

// envSections are the nested config sections, longest first so that
// GREENHOUSE_SOLAR_* wins over GREENHOUSE_*.
var envSections = []string{
	"controllers_modbus",
	"greenhouse_daylight",
	"greenhouse_heating",
	"controllers_http",
	"controllers_mqtt",
	"greenhouse_solar",
	"greenhouse_clamp",
	"greenhouse",
	"weather",
}

// envKeyTransform maps an unprefixed variable name to a config key:
// CONTROLLERS_HTTP_ADDR -> controllers.http.addr.
func envKeyTransform(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return ""
	}
	for _, section := range envSections {
		rest, ok := strings.CutPrefix(key, section+"_")
		if !ok || rest == "" {
			continue
		}
		return strings.ReplaceAll(section, "_", ".") + "." + rest
	}
	return key
}

func envTransform(k, v string) (string, any) {
	key := envKeyTransform(strings.TrimPrefix(k, EnvPrefix))
	if key == "controllers.http.allowed_origins" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return key, origins
	}
	return key, v
}

func applyDefaults(cfg *Config) {
	if cfg.SiteID == "" {
		cfg.SiteID = "default"
	}
	if cfg.Controllers.HTTP.Addr == "" {
		cfg.Controllers.HTTP.Addr = ":8080"
	}
	c := &cfg.Controllers
	if !c.HTTP.Enabled && !c.MQTT.Enabled && !c.Modbus.Enabled {
		c.HTTP.Enabled = true
	}
	if c.MQTT.PublishInterval == 0 {
		c.MQTT.PublishInterval = 1 * time.Second
	}
	if c.Modbus.UnitID == 0 {
		c.Modbus.UnitID = 1
	}
	if cfg.Weather.Provider == "" {
		cfg.Weather.Provider = "weatherapi"
	}
}

func ApplyEnvOverrides(cfg *Config) {
	// PORT is common in containers; listen on all interfaces on that port.
	if v := os.Getenv("PORT"); v != "" && os.Getenv(EnvPrefix+"CONTROLLERS_HTTP_ADDR") == "" {
		cfg.Controllers.HTTP.Addr = ":" + v
	}
	if v := os.Getenv("WEATHERAPI_KEY"); v != "" && cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = v
	}
}

// Params builds the runner parameters; configured layers, when present,
// replace thermal_mass.
func (c Config) Params(presets greenhouse.Presets) (greenhouse.Params, error) {
	g := c.Greenhouse

	mass := g.ThermalMass
	if len(g.Layers) > 0 {
		layers := make([]greenhouse.Layer, 0, len(g.Layers))
		for _, l := range g.Layers {
			if !(l.Volume >= 0) || math.IsInf(l.Volume, 0) {
				return greenhouse.Params{}, fmt.Errorf("%w: layer %q volume must be finite and >= 0", greenhouse.ErrInvalidConfiguration, l.Material)
			}
			m, err := presets.Lookup(l.Material)
			if err != nil {
				return greenhouse.Params{}, fmt.Errorf("layer %q: %w", l.Material, err)
			}
			layers = append(layers, greenhouse.Layer{Material: m, Volume: l.Volume})
		}
		mass = greenhouse.CompositeThermalMass(layers...)
	}

	p := greenhouse.Params{
		Envelope: greenhouse.Envelope{
			UDay:        g.UDay,
			UNight:      g.UNight,
			Area:        g.Area,
			ThermalMass: mass,
		},
		HeatSource: greenhouse.HeatSource{
			HeatingPower: greenhouse.HeatingPower(g.Heating.CirculationPower, g.Heating.StoragePower, g.Heating.Efficiency),
		},
		PeakSolarGain: greenhouse.PeakSolarGain(g.Solar.Irradiance, g.Solar.CollectionArea, g.Solar.TransmissionEfficiency),
		Step:          g.Step,
		Bounds:        greenhouse.Bounds{Min: g.Clamp.Min, Max: g.Clamp.Max},
		Daylight:      greenhouse.DaylightWindow{Start: g.Daylight.Start, End: g.Daylight.End},
	}
	if err := p.Validate(); err != nil {
		return greenhouse.Params{}, err
	}
	return p, nil
}

// Simulation builds the service configuration.
func (c Config) Simulation(presets greenhouse.Presets) (simulation.Config, error) {
	params, err := c.Params(presets)
	if err != nil {
		return simulation.Config{}, err
	}
	mode, err := simulation.ParseDaylightMode(c.Greenhouse.Daylight.Mode)
	if err != nil {
		return simulation.Config{}, err
	}
	return simulation.Config{
		SiteID:      c.SiteID,
		Params:      params,
		Daylight:    mode,
		MaxDays:     c.Greenhouse.MaxDays,
		Concurrency: c.Greenhouse.Concurrency,
		Presets:     presets,
	}, nil
}

// WeatherSource returns the configured provider.
func (c Config) WeatherSource() (weather.Source, error) {
	w := c.Weather
	switch strings.ToLower(w.Provider) {
	case "weatherapi":
		client := weather.NewClientWithHTTPClient(&http.Client{Timeout: w.Timeout}, w.APIKey)
		if w.BaseURL != "" {
			client.SetBaseURL(w.BaseURL)
		}
		client.SetUserAgent(w.UserAgent)
		return client, nil
	case "csv":
		if w.CSVPath == "" {
			return nil, fmt.Errorf("weather: csv provider requires csv_path")
		}
		loc, err := time.LoadLocation(w.CSVTimeZone)
		if err != nil {
			return nil, fmt.Errorf("weather: csv_timezone: %w", err)
		}
		return weather.NewCSVSource(w.CSVPath, loc), nil
	default:
		return nil, fmt.Errorf("weather: unknown provider %q", w.Provider)
	}
}
