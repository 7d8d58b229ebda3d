// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
)

const defaultSysfsRoot = "/sys/class/drm"

// SysfsQuerier reads AMD GPU utilization from the amdgpu sysfs interface:
// gpu_busy_percent and mem_info_vram_{used,total} under each card's device
// directory. It needs no external tooling on the node.
type SysfsQuerier struct {
	root string
}

func NewSysfsQuerier() *SysfsQuerier {
	return &SysfsQuerier{root: defaultSysfsRoot}
}

// NewSysfsQuerierAt points the querier at an alternate sysfs root.
func NewSysfsQuerierAt(root string) *SysfsQuerier {
	return &SysfsQuerier{root: root}
}

func (q *SysfsQuerier) Query(_ context.Context) ([]DeviceSample, error) {
	cards, err := filepath.Glob(filepath.Join(q.root, "card[0-9]*"))
	if err != nil {
		return nil, errors.WrapError(err, "list drm cards", errors.CodeSamplingError)
	}
	sort.Strings(cards)

	var samples []DeviceSample
	for _, card := range cards {
		deviceDir := filepath.Join(card, "device")
		busy, err := readSysfsInt(filepath.Join(deviceDir, "gpu_busy_percent"))
		if err != nil {
			// render nodes and cards without amdgpu expose no busy file
			continue
		}
		used, err := readSysfsInt(filepath.Join(deviceDir, "mem_info_vram_used"))
		if err != nil {
			continue
		}
		total, err := readSysfsInt(filepath.Join(deviceDir, "mem_info_vram_total"))
		if err != nil || total == 0 {
			continue
		}
		samples = append(samples, DeviceSample{
			Device:         filepath.Base(card),
			UtilizationPct: float64(busy),
			MemoryUsedPct:  100 * float64(used) / float64(total),
		})
	}
	if len(samples) == 0 {
		return nil, errors.NewError().
			WithCode(errors.CodeSamplingError).
			WithMessage("no amdgpu devices found under %s", q.root)
	}
	return samples, nil
}

func readSysfsInt(path string) (int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

// StaticQuerier returns fixed samples on every query. It backs synthetic
// runs on machines without accelerators.
type StaticQuerier struct {
	Samples []DeviceSample
}

func (q *StaticQuerier) Query(_ context.Context) ([]DeviceSample, error) {
	return q.Samples, nil
}
