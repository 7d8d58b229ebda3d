// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package errors

const (
	// CodeConfigError marks an invalid or contradictory resolved run
	// configuration. Always fatal, raised before training starts.
	CodeConfigError int = 4001

	CodeInitializeError int = 7001
	CodeLackOfConfig    int = 7002

	// CodeMetricsStoreError marks a failed read or write against the
	// experiment-tracking store. Non-fatal for a running training job.
	CodeMetricsStoreError int = 8001

	// CodeSamplingError marks a failed throughput or device metrics sample.
	// Never fatal, the sample is dropped and the running means are unaffected.
	CodeSamplingError int = 8002
)
