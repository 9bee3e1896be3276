package cli

import (
	"github.com/mcoot/supertictactoe/internal/config"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"STTT_SERVER" envDefault:"http://localhost:8080"`
	Output    string `env:"STTT_OUTPUT" envDefault:"text"`
	Verbose   bool
}

// DefaultConfig returns a Config with defaults overridden by the environment
func DefaultConfig() *Config {
	c := &Config{ServerURL: "http://localhost:8080", Output: "text"}
	// A malformed environment leaves the defaults in place
	_ = config.ParseEnv(c)
	return c
}
