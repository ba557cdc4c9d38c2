package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Limits are form and rendering bounds that are easier to tune in YAML
// than through environment variables.
type Limits struct {
	ExtensionNameMin    int     `yaml:"extension_name_min"`
	ExtensionNameMax    int     `yaml:"extension_name_max"`
	ShortDescriptionMin int     `yaml:"short_description_min"`
	ShortDescriptionMax int     `yaml:"short_description_max"`
	GeneratedTextMax    int     `yaml:"generated_text_max"`
	HighlightFloor      float64 `yaml:"highlight_floor"`
	CSVMaxBytes         int64   `yaml:"csv_max_bytes"`
}

// YAMLConfig represents the structure of the config.yaml file.
type YAMLConfig struct {
	Limits Limits `yaml:"limits"`
}

// DefaultLimits mirrors the limits the remote generator enforces.
func DefaultLimits() Limits {
	return Limits{
		ExtensionNameMin:    3,
		ExtensionNameMax:    75,
		ShortDescriptionMin: 10,
		ShortDescriptionMax: 132,
		GeneratedTextMax:    16000,
		HighlightFloor:      0.8,
		CSVMaxBytes:         1 << 20,
	}
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Limits = cfg.Limits.withDefaults()
	return &cfg, nil
}

// withDefaults fills zero fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.ExtensionNameMin == 0 {
		l.ExtensionNameMin = d.ExtensionNameMin
	}
	if l.ExtensionNameMax == 0 {
		l.ExtensionNameMax = d.ExtensionNameMax
	}
	if l.ShortDescriptionMin == 0 {
		l.ShortDescriptionMin = d.ShortDescriptionMin
	}
	if l.ShortDescriptionMax == 0 {
		l.ShortDescriptionMax = d.ShortDescriptionMax
	}
	if l.GeneratedTextMax == 0 {
		l.GeneratedTextMax = d.GeneratedTextMax
	}
	if l.HighlightFloor == 0 {
		l.HighlightFloor = d.HighlightFloor
	}
	if l.CSVMaxBytes == 0 {
		l.CSVMaxBytes = d.CSVMaxBytes
	}
	return l
}

// Apply copies YAML settings onto cfg. A nil YAMLConfig leaves cfg as is.
func (c *YAMLConfig) Apply(cfg *Config) {
	if c == nil {
		return
	}
	cfg.Limits = c.Limits
}
