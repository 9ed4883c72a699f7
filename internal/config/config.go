// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "OPTOLINK"

// Config defines the global configuration structure
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Device  DeviceConfig  `mapstructure:"device"`
	Link    LinkConfig    `mapstructure:"link"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Capture CaptureConfig `mapstructure:"capture"`
}

// LogConfig defines logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // Log file path
}

// DeviceConfig selects the command catalog of the controller.
type DeviceConfig struct {
	Model       string `mapstructure:"model"`        // built-in catalog, e.g. "vitocal300g"
	CatalogFile string `mapstructure:"catalog_file"` // YAML catalog, overrides Model
}

// LinkConfig defines how the controller is reached
type LinkConfig struct {
	Type   string       `mapstructure:"type"`   // "serial", "tcp", "ws", "local"
	Serial SerialConfig `mapstructure:"serial"` // Used if Type is "serial"
	Tcp    TcpConfig    `mapstructure:"tcp"`    // Used if Type is "tcp"
	Ws     WsConfig     `mapstructure:"ws"`     // Used if Type is "ws"
	Local  LocalConfig  `mapstructure:"local"`  // Used if Type is "local"
}

// SerialConfig defines serial port settings of the optical adapter
type SerialConfig struct {
	Device      string        `mapstructure:"device"`
	BaudRate    int           `mapstructure:"baud_rate"`
	DataBits    int           `mapstructure:"data_bits"`
	Parity      string        `mapstructure:"parity"`
	StopBits    int           `mapstructure:"stop_bits"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RqstPause   time.Duration `mapstructure:"rqst_pause"`   // Pause between requests
	IdleTimeout time.Duration `mapstructure:"idle_timeout"` // Close port after inactivity
}

// TcpConfig defines a serial bridge reachable over TCP (e.g. ser2net)
type TcpConfig struct {
	Address string        `mapstructure:"address"` // e.g. "192.168.1.100:3002"
	Timeout time.Duration `mapstructure:"timeout"`
}

// WsConfig defines a serial bridge reachable over WebSocket
type WsConfig struct {
	URL      string        `mapstructure:"url"` // ws:// or wss://
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Insecure bool          `mapstructure:"insecure"` // Skip TLS verification
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LocalConfig defines the built-in device simulator
type LocalConfig struct {
	Seed        bool              `mapstructure:"seed"` // Pre-fill registers of the catalog
	Persistence PersistenceConfig `mapstructure:"persistence"`
}

// PersistenceConfig defines data storage settings
type PersistenceConfig struct {
	Type string `mapstructure:"type"` // "memory", "file", "mmap"
	Path string `mapstructure:"path"` // File path for "file/mmap" type
}

// GatewayConfig defines the TCP gateway exposing the link
type GatewayConfig struct {
	Listen         string        `mapstructure:"listen"`
	Serial         SerialConfig  `mapstructure:"serial"` // Serial upstream, disabled without Device
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CaptureConfig defines frame capture
type CaptureConfig struct {
	File string `mapstructure:"file"` // CBOR capture file, empty disables capture
}

// New returns a viper instance with defaults and search paths set.
func New(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/optolink/")
		v.AddConfigPath("$HOME/.optolink")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("device.model", "vitocal300g")
	v.SetDefault("link.type", "serial")
	v.SetDefault("link.serial.device", "/dev/ttyUSB0")
	v.SetDefault("link.serial.baud_rate", 4800)
	v.SetDefault("link.serial.data_bits", 8)
	v.SetDefault("link.serial.parity", "E")
	v.SetDefault("link.serial.stop_bits", 2)
	v.SetDefault("link.local.persistence.type", "memory")
	v.SetDefault("gateway.listen", "0.0.0.0:3002")
	v.SetDefault("gateway.serial.baud_rate", 4800)
	v.SetDefault("gateway.serial.data_bits", 8)
	v.SetDefault("gateway.serial.parity", "E")
	v.SetDefault("gateway.serial.stop_bits", 2)

	// Keys without a real default are still registered so that
	// OPTOLINK_* variables reach Unmarshal.
	for _, key := range []string{
		"log.file", "device.catalog_file", "link.tcp.address",
		"link.ws.url", "link.ws.username", "link.ws.password",
		"gateway.serial.device", "capture.file",
	} {
		v.SetDefault(key, "")
	}
	return v
}

// LoadConfig loads configuration from file
func LoadConfig(configFile string) (*Config, error) {
	return Load(New(configFile))
}

// Load reads the config file known to v, if any, and unmarshals it.
// A missing config file is not an error when none was named explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate / Fixups
	fixupSerial(&config.Link.Serial)
	fixupSerial(&config.Gateway.Serial)
	if config.Link.Tcp.Timeout == 0 {
		config.Link.Tcp.Timeout = 5 * time.Second
	}
	if config.Link.Ws.Timeout == 0 {
		config.Link.Ws.Timeout = 5 * time.Second
	}
	if config.Gateway.RequestTimeout == 0 {
		config.Gateway.RequestTimeout = 5 * time.Second
	}
	config.Link.Type = strings.ToLower(config.Link.Type)

	return &config, nil
}

func fixupSerial(s *SerialConfig) {
	s.Parity = strings.ToUpper(s.Parity)
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Second
	}
	if s.RqstPause == 0 {
		s.RqstPause = 50 * time.Millisecond
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = 60 * time.Second
	}
}
