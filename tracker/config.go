package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidConfig is returned when a Config fails validation
var ErrInvalidConfig = errors.New("invalid tracker config")

// Config holds the construction time parameters of a BYTETracker session
type Config struct {
	// FrameRate of the video source, scales TrackBuffer relative to 30 FPS
	FrameRate int `json:"frame_rate"`
	// TrackBuffer is the number of frames a lost track is retained
	TrackBuffer int `json:"track_buffer"`
	// TrackThresh splits detections into high (>=) and low score sets
	TrackThresh float32 `json:"track_thresh"`
	// HighThresh is the minimum score for a detection to start a new track
	HighThresh float32 `json:"high_thresh"`
	// HighIoUThresh gates the first association round against high score
	// detections
	HighIoUThresh float32 `json:"high_iou_thresh"`
	// LowIoUThresh gates the second association round against low score
	// detections
	LowIoUThresh float32 `json:"low_iou_thresh"`
}

// DefaultConfig returns the default tracker parameters
func DefaultConfig() Config {
	return Config{
		FrameRate:     30,
		TrackBuffer:   30,
		TrackThresh:   0.4,
		HighThresh:    0.6,
		HighIoUThresh: 0.2,
		LowIoUThresh:  0.4,
	}
}

// Validate checks the configuration is usable
func (c Config) Validate() error {

	if c.FrameRate <= 0 {
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalidConfig, c.FrameRate)
	}

	if c.TrackBuffer <= 0 {
		return fmt.Errorf("%w: track_buffer must be positive, got %d", ErrInvalidConfig, c.TrackBuffer)
	}

	if c.TrackThresh < 0 || c.TrackThresh > 1 {
		return fmt.Errorf("%w: track_thresh must be between 0 and 1, got %f", ErrInvalidConfig, c.TrackThresh)
	}

	if c.HighThresh < 0 || c.HighThresh > 1 {
		return fmt.Errorf("%w: high_thresh must be between 0 and 1, got %f", ErrInvalidConfig, c.HighThresh)
	}

	if c.HighThresh < c.TrackThresh {
		return fmt.Errorf("%w: high_thresh %f is below track_thresh %f", ErrInvalidConfig,
			c.HighThresh, c.TrackThresh)
	}

	if c.HighIoUThresh < 0 || c.HighIoUThresh >= 1 {
		return fmt.Errorf("%w: high_iou_thresh must be in [0,1), got %f", ErrInvalidConfig, c.HighIoUThresh)
	}

	if c.LowIoUThresh < 0 || c.LowIoUThresh >= 1 {
		return fmt.Errorf("%w: low_iou_thresh must be in [0,1), got %f", ErrInvalidConfig, c.LowIoUThresh)
	}

	return nil
}

// MaxTimeLost returns the number of frames a lost track may go unmatched,
// TrackBuffer scaled by FrameRate relative to 30 FPS
func (c Config) MaxTimeLost() int {
	n := int(float32(c.FrameRate) / 30.0 * float32(c.TrackBuffer))
	if n < 1 {
		return 1
	}
	return n
}

// LoadConfig reads a JSON config file.  Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {

	cleanPath := filepath.Clean(path)

	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	const maxFileSize = 1 << 20
	if info.Size() > maxFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
