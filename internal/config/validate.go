package config

import "fmt"

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Engine.Shards < 1 {
		return fmt.Errorf("engine.shards must be >= 1, got %d", c.Engine.Shards)
	}
	if c.Engine.QueueCapacity < 1 {
		return fmt.Errorf("engine.queue_capacity must be >= 1, got %d", c.Engine.QueueCapacity)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
