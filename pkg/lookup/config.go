package lookup

import (
	"fmt"
	"time"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

// Config holds lookup engine configuration.
type Config struct {
	// BatchSize is the number of ids per remote call (1..100)
	BatchSize int

	// MaxConcurrency caps batches in flight per lookup; 0 dispatches every
	// batch at once
	MaxConcurrency int

	// BatchTimeout bounds each remote batch fetch; 0 disables the bound
	BatchTimeout time.Duration
}

// DefaultConfig returns the configuration matching the users API limits.
func DefaultConfig() Config {
	return Config{
		BatchSize:      users.MaxBatchSize,
		MaxConcurrency: 0,
		BatchTimeout:   15 * time.Second,
	}
}

// Validate checks the configuration for programmer errors.
func (c Config) Validate() error {
	if c.BatchSize <= 0 || c.BatchSize > users.MaxBatchSize {
		return fmt.Errorf("batch_size must be within 1..%d (got %d)", users.MaxBatchSize, c.BatchSize)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0 (got %d)", c.MaxConcurrency)
	}
	if c.BatchTimeout < 0 {
		return fmt.Errorf("batch_timeout must be >= 0 (got %s)", c.BatchTimeout)
	}
	return nil
}
