package config

// Config bounds one cleanup run.
type Config struct {
	InactivityDays       int
	PageSize             int
	MaxPages             int
	MessageBatchSize     int
	MaxMessageIterations int
}

func DefaultConfig() *Config {
	return &Config{
		InactivityDays:       90,
		PageSize:             50,
		MaxPages:             20,
		MessageBatchSize:     100,
		MaxMessageIterations: 50,
	}
}
