package config

// Default values for optional configuration fields.
const (
	DefaultShards        = 4
	DefaultQueueCapacity = 1000
	DefaultLogLevel      = "info"
)

func (c *Config) applyDefaults() {
	if c.Engine.Shards == 0 {
		c.Engine.Shards = DefaultShards
	}
	if c.Engine.QueueCapacity == 0 {
		c.Engine.QueueCapacity = DefaultQueueCapacity
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
