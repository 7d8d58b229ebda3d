// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package config

import (
	"os"
	"strconv"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/mfu"
	"github.com/AMD-AGI/Primus-Bench/pkg/plan"
)

// Settings is the fully resolved benchmark configuration: every raw config
// value parsed, validated and converted into the units the rest of the
// system works in. Building it fails with a config error naming the first
// offending field, before any training resource is touched.
type Settings struct {
	Goal      plan.TrainingGoal `yaml:"goal"`
	BatchPlan plan.BatchPlan    `yaml:"batch_plan"`
	Schedule  plan.Schedule     `yaml:"schedule"`

	SequenceLength int64                     `yaml:"max_sequence_length"`
	Architecture   mfu.ArchitectureConstants `yaml:"architecture"`
	HardwareFLOPs  float64                   `yaml:"hardware_flops_per_second"`

	StoreEndpoint string `yaml:"store_endpoint"`
	StoreApiKey   string `yaml:"-"`
	StoreTag      string `yaml:"store_tag"`
}

// ResolveSettings validates the loaded configuration and converts it into a
// Settings. All conversions happen here, once, so downstream code never
// re-derives schedule math from raw fields.
func ResolveSettings() (*Settings, error) {
	goal, err := plan.NewTrainingGoal(GetTrainingGoal(), GetTrainingGoalUnit())
	if err != nil {
		return nil, err
	}

	devices := GetNumDevices()
	if devices < 0 {
		devices = detectDeviceCount()
		log.Infof("auto-detected %d devices", devices)
	}
	batchPlan, err := plan.ResolveBatchPlan(GetBatchSizePerDevice(), GetEffectiveBatchSize(), devices)
	if err != nil {
		return nil, err
	}

	seqLen := GetMaxSequenceLength()
	if seqLen <= 0 {
		return nil, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("training.max_sequence_length must be positive, got %d", seqLen)
	}

	schedule, err := plan.ResolveSchedule(goal, batchPlan, seqLen, plan.ScheduleFractions{
		ValFrequency:        GetValFrequency(),
		CheckpointFrequency: GetCheckpointFrequency(),
		Warmup:              GetLrWarmup(),
	})
	if err != nil {
		return nil, err
	}

	arch := mfu.ArchitectureConstants{
		Parameters:    GetModelParameters(),
		Layers:        GetModelLayers(),
		Heads:         GetModelHeads(),
		HeadDimension: GetModelHeadDimension(),
	}
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	flops := GetHardwareFlopsPerSecond()
	if flops <= 0 {
		return nil, errors.NewError().
			WithCode(errors.CodeConfigError).
			WithMessage("hardware.flops_per_second must be positive, got %g", flops)
	}

	return &Settings{
		Goal:           goal,
		BatchPlan:      batchPlan,
		Schedule:       schedule,
		SequenceLength: seqLen,
		Architecture:   arch,
		HardwareFLOPs:  flops,
		StoreEndpoint:  GetStoreEndpoint(),
		StoreApiKey:    GetStoreApiKey(),
		StoreTag:       GetStoreTag(),
	}, nil
}

// detectDeviceCount reads the launcher environment. Outside a distributed
// launcher a single device is assumed.
func detectDeviceCount() int64 {
	for _, key := range []string{"WORLD_SIZE", "SLURM_NTASKS"} {
		raw, ok := os.LookupEnv(key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			log.Warnf("ignoring malformed device count env %s=%q", key, raw)
			continue
		}
		return n
	}
	return 1
}
