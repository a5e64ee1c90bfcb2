package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// StationRelease selects when an instruction gives up its reservation
// station.
type StationRelease string

// Station release policies.
const (
	// ReleaseAtBroadcast keeps the station occupied while the instruction
	// executes and frees it together with the functional unit, when the
	// result is broadcast or the store completes.
	ReleaseAtBroadcast StationRelease = "broadcast"

	// ReleaseAtIssue frees the station as soon as the instruction starts on
	// a functional unit.
	ReleaseAtIssue StationRelease = "issue"
)

// Config holds the structural parameters of the out-of-order core.
type Config struct {
	// QueueSize is the capacity of the instruction queue. Default: 10.
	QueueSize int `json:"queue_size"`

	// IntStations is the number of integer reservation stations. Default: 4.
	IntStations int `json:"int_stations"`

	// FPStations is the number of floating-point reservation stations.
	// Default: 2.
	FPStations int `json:"fp_stations"`

	// IntUnits is the number of integer functional units. Default: 2.
	IntUnits int `json:"int_units"`

	// FPUnits is the number of floating-point functional units. Default: 1.
	FPUnits int `json:"fp_units"`

	// StationRelease selects when reservation stations are freed.
	// Default: ReleaseAtBroadcast.
	StationRelease StationRelease `json:"station_release"`

	// MaxInstructions limits how many trace entries are fetched and
	// simulated. Zero simulates the whole trace.
	MaxInstructions int `json:"max_instructions"`
}

// DefaultConfig returns the default core configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize:      10,
		IntStations:    4,
		FPStations:     2,
		IntUnits:       2,
		FPUnits:        1,
		StationRelease: ReleaseAtBroadcast,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read pipeline config file: %w", err)
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse pipeline config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize pipeline config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pipeline config file: %w", err)
	}

	return nil
}

// Validate checks that every capacity is positive and the release policy is
// known.
func (c Config) Validate() error {
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be > 0")
	}
	if c.IntStations <= 0 {
		return fmt.Errorf("int_stations must be > 0")
	}
	if c.FPStations <= 0 {
		return fmt.Errorf("fp_stations must be > 0")
	}
	if c.IntUnits <= 0 {
		return fmt.Errorf("int_units must be > 0")
	}
	if c.FPUnits <= 0 {
		return fmt.Errorf("fp_units must be > 0")
	}
	if c.MaxInstructions < 0 {
		return fmt.Errorf("max_instructions must be >= 0")
	}

	switch c.StationRelease {
	case ReleaseAtBroadcast, ReleaseAtIssue:
	default:
		return fmt.Errorf("unknown station_release %q", c.StationRelease)
	}

	return nil
}
