// Package settings manages persistent user settings for the newtask CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override (NEWTASK_USER, ...).
const EnvPrefix = "newtask"

const (
	DefaultConnection = "network_cli"
	DefaultNetworkOS  = "cisco.nxos.nxos"
)

// Settings holds persistent user preferences
type Settings struct {
	// User is written as ansible_user when --user is not given
	User string `json:"user,omitempty" split_words:"true"`

	// Connection is written as ansible_connection
	Connection string `json:"connection,omitempty" split_words:"true"`

	// NetworkOS is written as ansible_network_os
	NetworkOS string `json:"network_os,omitempty" split_words:"true"`

	// OutputDir is where build writes playbooks when -o names a bare file
	OutputDir string `json:"output_dir,omitempty" split_words:"true"`

	// AuditLog overrides the audit log location
	AuditLog string `json:"audit_log,omitempty" split_words:"true"`
}

// Keys lists the setting names accepted by Get and Set, in display order.
var Keys = []string{"user", "connection", "network_os", "output_dir", "audit_log"}

// Dir returns the per-user newtask directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".newtask"
	}
	return filepath.Join(home, ".newtask")
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	return filepath.Join(Dir(), "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// ApplyEnv overlays NEWTASK_* environment variables. Only prefixed names
// are read; unset variables leave the file value in place.
func (s *Settings) ApplyEnv() error {
	return envconfig.Process(EnvPrefix, s)
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (s *Settings) field(key string) (*string, error) {
	switch key {
	case "user":
		return &s.User, nil
	case "connection":
		return &s.Connection, nil
	case "network_os", "os":
		return &s.NetworkOS, nil
	case "output_dir", "output":
		return &s.OutputDir, nil
	case "audit_log", "audit":
		return &s.AuditLog, nil
	}
	return nil, fmt.Errorf("unknown setting: %s (valid: user, connection, network_os, output_dir, audit_log)", key)
}

// Get returns the stored value of a setting, without defaults.
func (s *Settings) Get(key string) (string, error) {
	p, err := s.field(key)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set stores a setting value. An empty value clears it.
func (s *Settings) Set(key, value string) error {
	p, err := s.field(key)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// GetConnection returns the connection plugin (with fallback)
func (s *Settings) GetConnection() string {
	if s.Connection != "" {
		return s.Connection
	}
	return DefaultConnection
}

// GetNetworkOS returns the network OS (with fallback)
func (s *Settings) GetNetworkOS() string {
	if s.NetworkOS != "" {
		return s.NetworkOS
	}
	return DefaultNetworkOS
}

// GetOutputDir returns the output directory (with fallback)
func (s *Settings) GetOutputDir() string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	return "."
}

// GetAuditLog returns the audit log path (with fallback)
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return filepath.Join(Dir(), "audit.log")
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
