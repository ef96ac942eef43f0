package config

import (
	"os"
	"sort"

	"github.com/napier-ai/napier/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no config path is given on the command line.
const DefaultPath = "napier.yaml"

// Server describes how to launch one MCP server process.
type Server struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
}

// Defaults holds the defaults section of the config file. Currently only a
// default server name.
type Defaults struct {
	Server string `yaml:"server"`
}

// Model holds the model and runtime defaults.
type Model struct {
	Provider    string  `yaml:"provider"`
	Name        string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Config is the server registry plus model defaults, loaded once at startup
// and read-only afterward.
type Config struct {
	Servers  map[string]Server `yaml:"mcp_servers"`
	Defaults Defaults          `yaml:"defaults"`
	Napier   Model             `yaml:"napier"`
}

// Default returns the built-in safe configuration used when no config file
// can be loaded.
func Default() *Config {
	return &Config{
		Servers: map[string]Server{},
		Napier: Model{
			Provider:    "gemini",
			Name:        "gemini-2.0-flash",
			Temperature: 0.2,
		},
	}
}

// Load reads the configuration from path, falling back to DefaultPath when
// path is empty. Load never returns a nil Config: on a missing or unparsable
// file it returns the built-in defaults together with a configuration error
// the caller may log as a warning.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), errors.WithKind(errors.KindConfiguration,
				"config file not found at %s, using default configuration", path)
		}
		return Default(), errors.WrapKind(errors.KindConfiguration, err,
			"error reading config file %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), errors.WrapKind(errors.KindConfiguration, err,
			"error parsing config file %s", path)
	}
	if cfg.Servers == nil {
		cfg.Servers = map[string]Server{}
	}
	return cfg, nil
}

// Resolve looks up a logical server name in the registry.
func (c *Config) Resolve(name string) (Server, bool) {
	s, ok := c.Servers[name]
	return s, ok
}

// DefaultServer returns the configured default server name, or "" if none.
func (c *Config) DefaultServer() string {
	return c.Defaults.Server
}

// ServerNames returns the configured server names in sorted order.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
