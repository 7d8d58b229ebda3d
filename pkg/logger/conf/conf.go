// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package conf

type Level string

const (
	TraceLevel Level = "trace"
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	FatalLevel Level = "fatal"
)

// LogConfig controls the global logger. Zero values fall back to the
// defaults from DefaultConfig.
type LogConfig struct {
	Level     Level     `json:"level" yaml:"level"`
	Formatter Formatter `json:"formatter" yaml:"formatter"`
}

func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:     InfoLevel,
		Formatter: ConsoleFormater,
	}
}

func (c *LogConfig) Normalize() {
	if c.Level == "" {
		c.Level = InfoLevel
	}
	if !isValidFormatter(c.Formatter) {
		c.Formatter = ConsoleFormater
	}
}
