package config

import "time"

type Relay struct {
	// Enabled controls whether sl-standalone runs the relay in-process.
	Enabled   bool          `env:"RELAY_ENABLED" envDefault:"true"`
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
}
