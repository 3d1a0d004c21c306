package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Settings     Settings           `yaml:"settings"`
	Log          LogConfig          `yaml:"log"`
	Descriptions DescriptionsConfig `yaml:"descriptions"`
	Query        QueryConfig        `yaml:"query"`

	// CLI-only settings
	Parameter string
	Domain    string
	AsJSON    bool
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// LogConfig points at the decoded flight log feed (JSONL)
type LogConfig struct {
	Path string `yaml:"path"`
}

// DescriptionsConfig points at the message/field description index
type DescriptionsConfig struct {
	Path string `yaml:"path"`
}

// QueryConfig represents query engine settings
type QueryConfig struct {
	DomainPriority []string `yaml:"domainPriority"`
}

// LoadConfig reads and parses a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}

	return &c, nil
}

// NewConfigFromCLI builds the configuration from command line flags,
// optionally merged over a YAML configuration file.
func NewConfigFromCLI() (*Config, error) {
	var configPath, logPath, descPath, domains string

	c := &Config{}
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.StringVar(&logPath, "log", "", "Path to the decoded flight log feed (JSONL)")
	flag.StringVar(&descPath, "desc", "", "Path to the parameter descriptions file (JSON)")
	flag.StringVar(&c.Parameter, "p", "", "Parameter to query, in TYPE.FIELD form (prints the catalog when omitted)")
	flag.StringVar(&c.Domain, "d", "TimeUS", "Time domain to query the parameter against")
	flag.StringVar(&domains, "priority", "", "Comma-separated time domain fallback order")
	flag.BoolVar(&c.AsJSON, "json", false, "Emit JSON instead of plain text")
	flag.Parse()

	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		loaded.Parameter = c.Parameter
		loaded.Domain = c.Domain
		loaded.AsJSON = c.AsJSON
		c = loaded
	}

	if logPath != "" {
		c.Log.Path = logPath
	}
	if descPath != "" {
		c.Descriptions.Path = descPath
	}
	if domains != "" {
		c.Query.DomainPriority = splitList(domains)
	}

	if c.Log.Path == "" {
		flag.Usage()
		return nil, errors.New("flight log path is required")
	}

	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
