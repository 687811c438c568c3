// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AnalysisConfig holds settings for the external analysis service.
type AnalysisConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// RequestTimeout returns the analysis call timeout as a duration.
func (a AnalysisConfig) RequestTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Millisecond
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ChatConfig holds settings for the chat session engine.
type ChatConfig struct {
	SimulatedLatency int `mapstructure:"simulated_latency"` // milliseconds
	SeedDelay        int `mapstructure:"seed_delay"`        // milliseconds
}

// SimulatedLatencyDuration returns the assistant reply delay as a duration.
func (c ChatConfig) SimulatedLatencyDuration() time.Duration {
	return time.Duration(c.SimulatedLatency) * time.Millisecond
}

// SeedDelayDuration returns the one-shot seed delay as a duration.
func (c ChatConfig) SeedDelayDuration() time.Duration {
	return time.Duration(c.SeedDelay) * time.Millisecond
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
