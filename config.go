package asyncrt

import "github.com/BurntSushi/toml"

// DemoConfig is the TOML-driven configuration accepted by the cmd/ demo
// binaries. This is ambient CLI surface, not part of the core runtime
// contract, grounded on the lindb cmd/lind convention of loading a small
// TOML file into a typed struct before wiring up the rest of the program.
type DemoConfig struct {
	LogLevel string          `toml:"log_level"`
	Timers   []TimerDemoSpec `toml:"timers"`
}

// TimerDemoSpec names a single timer registration for demo-timers.
type TimerDemoSpec struct {
	Name        string `toml:"name"`
	MilliSecond int    `toml:"millis"`
}

// LoadDemoConfig reads a TOML file at path into a DemoConfig. A missing
// path is not an error: callers fall back to built-in defaults.
func LoadDemoConfig(path string) (DemoConfig, error) {
	var cfg DemoConfig
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
