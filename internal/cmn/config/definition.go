package config

// Definition holds the configuration as read from the config file and the
// environment. Each field maps to a configuration key.
type Definition struct {
	// Debug enables debug logging with source locations.
	Debug bool `mapstructure:"debug"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"logFormat"`

	// Quiet suppresses log output on stderr.
	Quiet bool `mapstructure:"quiet"`

	// FPS is the frame rate of real-time playback.
	FPS int `mapstructure:"fps"`

	// Simulate plays timelines on a deterministic clock instead of real
	// time.
	Simulate bool `mapstructure:"simulate"`

	// MaxDuration bounds playback, as a Go duration string.
	MaxDuration string `mapstructure:"maxDuration"`

	// Timeline is the default timeline file.
	Timeline string `mapstructure:"timeline"`
}
