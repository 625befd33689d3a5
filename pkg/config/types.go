package config

import "powerchat/pkg/models"

// Config is the main configuration struct.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
	Rooms    RoomsConfig    `yaml:"rooms"`
	Blob     BlobConfig     `yaml:"blob"`
	Audit    AuditConfig    `yaml:"audit"`
}

// ServerConfig holds http and tls settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// StorageConfig holds the data path. The tree store, blob objects and
// runtime state all live under it.
type StorageConfig struct {
	DataPath string `yaml:"data_path"`
}

// SecurityConfig holds security related settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	APIKeys struct {
		Backend  []string `yaml:"backend"`
		Frontend []string `yaml:"frontend"`
		Admin    []string `yaml:"admin"`
	} `yaml:"api_keys"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RoomsConfig carries the power-window policy table keyed by chatroom id.
// Ids absent from the table get models.DefaultWindow.
type RoomsConfig struct {
	PowerWindows map[string]models.PowerWindow `yaml:"power_windows"`
}

// BlobConfig holds blob-store settings. PublicBase is the URL prefix under
// which uploaded objects are served (defaults to the server's own address).
type BlobConfig struct {
	PublicBase string `yaml:"public_base"`
}

// AuditConfig controls the scheduled directory-consistency audit.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// DefaultPowerWindows is the policy table shipped with the service, stored
// as [max, min] per room id. Overridden, not merged, when the config file
// provides its own table.
func DefaultPowerWindows() map[string]models.PowerWindow {
	return map[string]models.PowerWindow{
		"0000": {Max: 1.0, Min: 1.0},
		"0001": {Max: 0.99, Min: 0.51},
		"0010": {Max: 0.5, Min: 0.5},
		"0011": {Max: 0.49, Min: 0.02},
		"0100": {Max: 0.01, Min: 0.01},
	}
}
