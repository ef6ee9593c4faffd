package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/gpio"
	"github.com/stronnag/elrsplay/pkg/options"
	"github.com/stronnag/elrsplay/pkg/safety"
)

type Device struct {
	Port       string `json:"port"`
	Baudrate   int    `json:"baudrate"`
	HalfDuplex bool   `json:"half_duplex"`
	GpioTx     int    `json:"gpio_tx"`
}

type Playback struct {
	DefaultRateHz float64 `json:"default_rate_hz"`
	ArmDelayMs    uint32  `json:"arm_delay_ms"`
}

// Safety settings as written in the file; ArmChannel counts from 1.
type Safety struct {
	ArmChannel        int    `json:"arm_channel"`
	ArmThreshold      int16  `json:"arm_threshold"`
	ThrottleMin       int16  `json:"throttle_min"`
	FailsafeTimeoutMs uint32 `json:"failsafe_timeout_ms"`
	ArmDelayMs        uint32 `json:"arm_delay_ms"`
	DisarmFrames      int    `json:"disarm_frames"`
}

type Scheduling struct {
	Realtime bool `json:"realtime"`
	Priority int  `json:"priority"`
}

type Logging struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Config struct {
	Device     Device     `json:"device"`
	Playback   Playback   `json:"playback"`
	Safety     Safety     `json:"safety"`
	Scheduling Scheduling `json:"scheduling"`
	Logging    Logging    `json:"logging"`
}

func Default() *Config {
	sc := safety.DefaultConfig()
	return &Config{
		Device: Device{
			Port:       "/dev/ttyAMA0",
			Baudrate:   types.CRSF_BAUDRATE,
			HalfDuplex: true,
			GpioTx:     -1,
		},
		Playback: Playback{DefaultRateHz: 500, ArmDelayMs: sc.ArmDelayMs},
		Safety: Safety{
			ArmChannel:        sc.ArmChannel + 1,
			ArmThreshold:      sc.ArmThreshold,
			ThrottleMin:       sc.ThrottleMin,
			FailsafeTimeoutMs: sc.FailsafeTimeoutMs,
			ArmDelayMs:        sc.ArmDelayMs,
			DisarmFrames:      sc.DisarmFrames,
		},
		Scheduling: Scheduling{Realtime: true, Priority: 50},
		Logging:    Logging{Level: "info"},
	}
}

// SafetyConfig converts to the supervisor's zero based form.
func (c *Config) SafetyConfig() safety.Config {
	return safety.Config{
		ArmChannel:        c.Safety.ArmChannel - 1,
		ArmThreshold:      c.Safety.ArmThreshold,
		ThrottleMin:       c.Safety.ThrottleMin,
		FailsafeTimeoutMs: c.Safety.FailsafeTimeoutMs,
		ArmDelayMs:        c.Safety.ArmDelayMs,
		DisarmFrames:      c.Safety.DisarmFrames,
	}
}

// ResolveDevice applies gpio_tx, when it names a known UART pin, to the port.
func (c *Config) ResolveDevice() {
	if c.Device.GpioTx >= 0 {
		if m, ok := gpio.FindByTx(c.Device.GpioTx); ok {
			c.Device.Port = m.Device
		} else {
			options.Logf(options.LOG_WARN, "config: GPIO%d is not a UART TX pin\n", c.Device.GpioTx)
		}
	}
}

// Load reads a JSON, TOML or YAML file over the defaults. All three are
// checked against the same schema.
func Load(fn string) (*Config, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, types.WrapError(types.ErrConfig, err, "Cannot open config file")
	}
	return Parse(data, filepath.Ext(fn))
}

// Parse decodes data in the format implied by ext (".json" when unknown).
func Parse(data []byte, ext string) (*Config, error) {
	var generic map[string]interface{}
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.Decode(string(data), &generic)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &generic)
	default:
		err = json.Unmarshal(data, &generic)
	}
	if err != nil {
		return nil, types.WrapError(types.ErrConfig, err, "config parse error")
	}
	if generic == nil {
		generic = map[string]interface{}{}
	}

	js, err := json.Marshal(generic)
	if err != nil {
		return nil, types.WrapError(types.ErrConfig, err, "config")
	}
	sch, err := configSchema()
	if err != nil {
		return nil, types.WrapError(types.ErrGeneral, err, "config schema")
	}
	if err := sch.Validate(bytes.NewReader(js)); err != nil {
		return nil, types.WrapError(types.ErrConfig, err, "invalid config")
	}

	cfg := Default()
	if err := json.Unmarshal(js, cfg); err != nil {
		return nil, types.WrapError(types.ErrConfig, err, "Error reading config values")
	}
	if _, err := options.ParseLevel(cfg.Logging.Level); err != nil {
		return nil, types.WrapError(types.ErrConfig, err, "logging")
	}
	cfg.ResolveDevice()
	return cfg, nil
}

var default_names = []string{"config.json", "config.toml", "config.yaml", "config.yml"}

// FindDefault returns the first config file present in the user's config
// directory, or "".
func FindDefault() string {
	dir := types.GetConfigDir()
	if dir == "" {
		return ""
	}
	for _, n := range default_names {
		fn := filepath.Join(dir, "elrsplay", n)
		if _, err := os.Stat(fn); err == nil {
			return fn
		}
	}
	return ""
}
