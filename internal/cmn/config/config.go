package config

import (
	"fmt"
	"time"
)

// Config holds the resolved application configuration.
type Config struct {
	Core  Core
	Frame Frame
	Paths Paths
	// Warnings are non-fatal problems found while loading.
	Warnings []string
}

// Core holds settings shared by every command.
type Core struct {
	Debug     bool
	LogFormat string
	Quiet     bool
}

// Frame holds playback settings.
type Frame struct {
	FPS         int
	Simulate    bool
	MaxDuration time.Duration
}

// Paths holds file locations.
type Paths struct {
	ConfigDir      string
	ConfigFileUsed string
	Timeline       string
}

const (
	DefaultFPS         = 60
	MaxFPS             = 240
	DefaultMaxDuration = 30 * time.Second
)

// Validate reports settings that cannot be repaired with a warning.
func (c *Config) Validate() error {
	if c.Frame.FPS <= 0 || c.Frame.FPS > MaxFPS {
		return fmt.Errorf("invalid fps %d: must be between 1 and %d", c.Frame.FPS, MaxFPS)
	}
	if c.Frame.MaxDuration <= 0 {
		return fmt.Errorf("invalid max duration %s: must be positive", c.Frame.MaxDuration)
	}
	return nil
}

// FrameInterval returns the time between frames.
func (c *Config) FrameInterval() time.Duration {
	if c.Frame.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Frame.FPS)
}
