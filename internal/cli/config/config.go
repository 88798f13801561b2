// Package config provides configuration management for the querygate CLI.
//
// Configuration is layered with koanf. Precedence, highest to lowest:
// flags > environment variables > config file > defaults.
package config

// Config holds all CLI configuration options.
type Config struct {
	Engine   string `koanf:"engine"`
	Output   string `koanf:"output"`
	Comments bool   `koanf:"comments"`
	Verbose  bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultEngine = "postgresql"
	DefaultOutput = "text"
)
