package main

import (
	"os"
	"strconv"

	"github.com/edgevision/go-bytetrack/tracker"
)

// envPrefix is prepended to the JSON field names of tracker.Config to form
// the environment variables that override them
const envPrefix = "BYTETRACK_"

// applyEnv overrides config fields from BYTETRACK_* environment variables,
// values that fail to parse are ignored
func applyEnv(cfg *tracker.Config) {
	cfg.FrameRate = getEnvAsInt(envPrefix+"FRAME_RATE", cfg.FrameRate)
	cfg.TrackBuffer = getEnvAsInt(envPrefix+"TRACK_BUFFER", cfg.TrackBuffer)
	cfg.TrackThresh = getEnvAsFloat32(envPrefix+"TRACK_THRESH", cfg.TrackThresh)
	cfg.HighThresh = getEnvAsFloat32(envPrefix+"HIGH_THRESH", cfg.HighThresh)
	cfg.HighIoUThresh = getEnvAsFloat32(envPrefix+"HIGH_IOU_THRESH", cfg.HighIoUThresh)
	cfg.LowIoUThresh = getEnvAsFloat32(envPrefix+"LOW_IOU_THRESH", cfg.LowIoUThresh)
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}
