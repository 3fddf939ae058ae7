// Package config loads the bot's configuration from an optional YAML file,
// applying defaults for anything unset.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to connect and run a script.
type Config struct {
	// ServerURL is the websocket endpoint, e.g. ws://bot@localhost:8080/ws.
	// A userinfo component supplies the username when Username is unset.
	ServerURL string `yaml:"server_url"`
	Username  string `yaml:"username"`
	// Script is the main script path. Usually supplied on the command line
	// instead.
	Script     string `yaml:"script"`
	PhysicsFPS int    `yaml:"physics_fps"`
	Headless   bool   `yaml:"headless"`
	Debug      bool   `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:  "ws://localhost:8080/ws",
		PhysicsFPS: 10,
		Headless:   true,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize fills derived fields: a missing username is taken from the
// server URL's userinfo, and a non-positive physics rate reverts to the
// default.
func (c *Config) Normalize() {
	if c.Username == "" {
		if u, err := url.Parse(c.ServerURL); err == nil && u.User != nil {
			c.Username = u.User.Username()
		}
	}
	if c.PhysicsFPS <= 0 {
		c.PhysicsFPS = Default().PhysicsFPS
	}
}

// Validate rejects configurations that cannot possibly connect.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server_url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server_url: scheme %q is not ws or wss", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url: missing host")
	}
	if c.PhysicsFPS > 1000 {
		return fmt.Errorf("physics_fps: %d is not a sane tick rate", c.PhysicsFPS)
	}
	return nil
}
