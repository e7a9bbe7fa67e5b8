package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"rfidcam/camera"
	"rfidcam/indicator"
	"rfidcam/ledger"
	"rfidcam/mqtt"
	"rfidcam/owners"
	"rfidcam/reader"
)

// Config is the main configuration structure for rfidcam.
type Config struct {
	// Card reader line source
	Reader reader.Config `yaml:"reader"`

	// Camera device and photo rendering
	Camera camera.Config `yaml:"camera"`

	// Scan log store
	Log ledger.Config `yaml:"log"`

	// MQTT connection settings
	MQTT mqtt.Config `yaml:"mqtt"`

	// Indicator configuration
	Indicator indicator.Config `yaml:"indicator"`

	// Card owners. Entries here override owner_file.
	Owners    map[string]string `yaml:"owners"`
	OwnerFile string            `yaml:"owner_file"`

	// General settings
	ClientID       string `yaml:"client_id"`
	PhotoDir       string `yaml:"photo_dir"`
	IdleDelayMs    int    `yaml:"idle_delay_ms"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	Buffer         int    `yaml:"buffer"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig reads the YAML file at path, applies defaults and validates
// the result.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Reader.Device == "" && (c.Reader.Type == "" || c.Reader.Type == "serial") {
		c.Reader.Device = "/dev/ttyACM0"
	}
	if c.PhotoDir == "" {
		c.PhotoDir = "rfid_photos"
	}
	if c.Log.Path == "" {
		c.Log.Path = "rfid_logs/rfid_log.xlsx"
	}
	if c.ClientID == "" {
		c.ClientID = "rfidcam"
	}
	if c.IdleDelayMs == 0 {
		c.IdleDelayMs = 100
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = 100
	}
	if c.Buffer == 0 {
		c.Buffer = 1024
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Reader.Type {
	case "", "serial", "pipe", "keyboard":
	default:
		return fmt.Errorf("unknown reader type %q", c.Reader.Type)
	}
	if c.Reader.Device == "" {
		return errors.New("reader device missing")
	}

	switch c.Camera.Type {
	case "", "v4l2":
	case "command":
		if len(c.Camera.Command) == 0 {
			return errors.New("camera type command needs a command")
		}
	default:
		return fmt.Errorf("unknown camera type %q", c.Camera.Type)
	}

	switch c.Log.Type {
	case "", "xlsx", "sqlite":
	default:
		return fmt.Errorf("unknown log type %q", c.Log.Type)
	}

	if c.PhotoDir == "" {
		return errors.New("photo_dir missing")
	}
	if c.Log.Path == "" {
		return errors.New("log path missing")
	}
	if c.IdleDelayMs < 0 || c.PollIntervalMs < 0 || c.Buffer < 0 {
		return errors.New("idle_delay_ms, poll_interval_ms and buffer must not be negative")
	}
	return nil
}

// Directory builds the owner directory from owner_file and owners.
func (c *Config) Directory() (*owners.Directory, error) {
	var fromFile map[string]string
	if c.OwnerFile != "" {
		m, err := owners.LoadFile(c.OwnerFile)
		if err != nil {
			return nil, err
		}
		fromFile = m
	}
	return owners.New(fromFile, c.Owners), nil
}
