package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"hdss-monitor/internal/survey"
)

// DSNEnv overrides source.dsn so credentials can stay out of the config file.
const DSNEnv = "HDSS_SOURCE_DSN"

type Config struct {
	Source Source `yaml:"source"`
	Survey Survey `yaml:"survey"`
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
}

type Source struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"`
}

// Survey holds the constants the classification rules depend on. None of them
// has a default.
type Survey struct {
	Sites                []string       `yaml:"sites"`
	Sectors              map[int]string `yaml:"sectors"`
	Outcomes             map[int]string `yaml:"outcomes"`
	GPSAccuracyThreshold *float64       `yaml:"gps_accuracy_threshold"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Server struct {
	Address  string        `yaml:"address"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	if dsn := os.Getenv(DSNEnv); dsn != "" {
		config.Source.DSN = dsn
	}
	config.applyDefaults()

	if err := config.Survey.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Driver == "" {
		c.Source.Driver = "postgres"
	}
	if c.Source.Database == "" {
		c.Source.Database = "hdss"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = 5 * time.Minute
	}
}

// Validate fails with a ConfigurationMissing error for the first absent constant.
func (s *Survey) Validate() error {
	if len(s.Sites) == 0 {
		return survey.NewConfigurationError("survey.sites")
	}
	if len(s.Sectors) == 0 {
		return survey.NewConfigurationError("survey.sectors")
	}
	if len(s.Outcomes) == 0 {
		return survey.NewConfigurationError("survey.outcomes")
	}
	if s.GPSAccuracyThreshold == nil {
		return survey.NewConfigurationError("survey.gps_accuracy_threshold")
	}
	return nil
}

// HasSite reports whether site is one of the configured sites, ignoring case.
func (s *Survey) HasSite(site string) bool {
	for _, known := range s.Sites {
		if strings.EqualFold(known, site) {
			return true
		}
	}
	return false
}

// SectorCodes returns the configured sector codes in ascending order.
func (s *Survey) SectorCodes() []int {
	codes := make([]int, 0, len(s.Sectors))
	for code := range s.Sectors {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Threshold returns the GPS accuracy threshold in meters. Validate must have passed.
func (s *Survey) Threshold() float64 {
	return *s.GPSAccuracyThreshold
}
