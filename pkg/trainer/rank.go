// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package trainer

import (
	"os"
	"strconv"

	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
)

var rankEnvVars = []string{"RANK", "SLURM_PROCID", "OMPI_COMM_WORLD_RANK"}

// DetectRank returns the global rank of this process in a distributed run,
// or 0 when no launcher environment is present. Only rank 0 is allowed to
// write results back to the experiment store.
func DetectRank() int {
	for _, key := range rankEnvVars {
		raw, ok := os.LookupEnv(key)
		if !ok || raw == "" {
			continue
		}
		rank, err := strconv.Atoi(raw)
		if err != nil {
			log.Warnf("ignoring malformed rank env %s=%q: %v", key, raw, err)
			continue
		}
		return rank
	}
	return 0
}

// IsGlobalZero reports whether this process should perform rank-0-only work.
func IsGlobalZero() bool {
	return DetectRank() == 0
}
