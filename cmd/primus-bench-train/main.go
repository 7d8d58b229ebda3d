// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	"github.com/AMD-AGI/Primus-Bench/pkg/bench"
	"github.com/AMD-AGI/Primus-Bench/pkg/config"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/conf"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
	"github.com/AMD-AGI/Primus-Bench/pkg/mfu"
	"github.com/AMD-AGI/Primus-Bench/pkg/server"
	"github.com/AMD-AGI/Primus-Bench/pkg/store"
	"github.com/AMD-AGI/Primus-Bench/pkg/trainer"
)

var (
	trainingGoal       = flag.Int64("trainingGoal", 0, "The magnitude of the training goal")
	trainingGoalUnit   = flag.String("trainingGoalUnit", "", "The unit of the training goal: samples, tokens or optimizer-steps")
	effectiveBatchSize = flag.Int64("effectiveBatchSize", 0, "The requested effective batch size, 0 disables gradient accumulation")
	batchSizePerDevice = flag.Int64("batchSizePerDevice", 0, "The micro batch size per device")
	numDevices         = flag.Int64("numDevices", -2, "The number of devices, -1 autodetects from the launcher environment")
	maxSequenceLength  = flag.Int64("maxSequenceLength", 0, "The training sequence length in tokens")
	valFrequency       = flag.Float64("valFrequency", -1, "The validation cadence, a fraction of the goal below 1 or absolute goal units")
	checkpointFreq     = flag.Float64("checkpointFrequency", -1, "The checkpoint cadence, same convention as valFrequency")
	lrWarmup           = flag.Float64("lrWarmup", -1, "The warmup extent, same convention as valFrequency")
	storeEndpoint      = flag.String("storeEndpoint", "", "The experiment store endpoint")
	storeTag           = flag.String("storeTag", "", "The tag this run is filed under")
	runName            = flag.String("runName", "", "The run name reported to the store")
	stepLatencyMs      = flag.Int64("stepLatencyMs", 0, "The simulated optimizer step latency in milliseconds")
	valLatencyMs       = flag.Int64("valLatencyMs", 0, "The simulated validation latency in milliseconds")
	gpuMetrics         = flag.Bool("gpuMetrics", true, "Whether to sample GPU utilization during the run")
	rankOverride       = flag.Int("rank", -1, "The global rank of this process, -1 detects from the launcher environment")
	dryRun             = flag.Bool("dryRun", false, "Print the resolved schedule as YAML and exit without training")
)

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags() {
	if *trainingGoal != 0 {
		config.SetValue("training.goal", *trainingGoal)
	}
	if *trainingGoalUnit != "" {
		config.SetValue("training.goal_unit", *trainingGoalUnit)
	}
	if *effectiveBatchSize != 0 {
		config.SetValue("training.effective_batch_size", *effectiveBatchSize)
	}
	if *batchSizePerDevice != 0 {
		config.SetValue("training.batch_size_per_device", *batchSizePerDevice)
	}
	if *numDevices != -2 {
		config.SetValue("training.num_devices", *numDevices)
	}
	if *maxSequenceLength != 0 {
		config.SetValue("training.max_sequence_length", *maxSequenceLength)
	}
	if *valFrequency >= 0 {
		config.SetValue("training.val_frequency", *valFrequency)
	}
	if *checkpointFreq >= 0 {
		config.SetValue("training.checkpoint_frequency", *checkpointFreq)
	}
	if *lrWarmup >= 0 {
		config.SetValue("training.lr_warmup", *lrWarmup)
	}
	if *storeEndpoint != "" {
		config.SetValue("store.endpoint", *storeEndpoint)
	}
	if *storeTag != "" {
		config.SetValue("store.tag", *storeTag)
	}
}

func main() {
	flag.Parse()

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyFlags()

	logCfg := &conf.LogConfig{
		Level:     conf.Level(config.GetLogLevel()),
		Formatter: conf.Formatter(config.GetLogFormatter()),
	}
	if err := log.InitGlobalLogger(logCfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// Configuration problems must surface before any training resource is
	// allocated.
	settings, err := config.ResolveSettings()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *runName == "" {
		*runName = "run-" + uuid.NewString()
		log.Infof("no run name given, using %s", *runName)
	}

	if *dryRun {
		out, err := yaml.Marshal(settings)
		if err != nil {
			log.Fatalf("failed to render schedule: %v", err)
		}
		fmt.Print(string(out))
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if port := config.GetServerPort(); port > 0 {
		server.AddDefaultRegister("/healthz", func() (interface{}, error) {
			return map[string]string{"status": "ok"}, nil
		})
		server.InitHealthServer(int(port))
	}

	rank := *rankOverride
	if rank < 0 {
		rank = trainer.DetectRank()
	}
	log.WithFields(log.Fields{
		"goal":                  settings.Goal.Magnitude,
		"goal_unit":             settings.Goal.Unit,
		"effective_batch_size":  settings.BatchPlan.EffectiveBatchSize,
		"grad_accumulation":     settings.BatchPlan.GradAccumulationSteps,
		"devices":               settings.BatchPlan.DeviceCount,
		"optimizer_steps_total": settings.Schedule.OptimizerStepsTotal,
		"warmup_steps":          settings.Schedule.WarmupSteps,
		"val_every_n_passes":    settings.Schedule.ValEveryNForwardPasses,
		"rank":                  rank,
	}).Info("resolved training schedule")

	throughput := bench.NewThroughputBenchmark(settings.SequenceLength)
	callbacks := []trainer.Callback{throughput}

	var gpuBench *bench.GpuMetricsBenchmark
	if *gpuMetrics {
		interval := time.Duration(config.GetGpuSamplingIntervalSeconds()) * time.Second
		gpuBench = bench.NewGpuMetricsBenchmark(bench.NewSysfsQuerier(), interval)
		callbacks = append(callbacks, gpuBench)
	}

	synthetic := trainer.NewSyntheticTrainer(
		settings.BatchPlan,
		time.Duration(*stepLatencyMs)*time.Millisecond,
		time.Duration(*valLatencyMs)*time.Millisecond,
	)
	if err := synthetic.Fit(ctx, settings.Schedule, callbacks...); err != nil {
		log.Fatalf("training aborted: %v", err)
	}

	reportSummary(ctx, settings, throughput, gpuBench, rank)
}

func reportSummary(ctx context.Context, settings *config.Settings, throughput *bench.ThroughputBenchmark, gpuBench *bench.GpuMetricsBenchmark, rank int) {
	summary := throughput.Summary()
	result, err := mfu.Compute(
		"", *runName,
		settings.HardwareFLOPs,
		settings.Architecture,
		settings.SequenceLength,
		summary.MeanTokensPerSecond,
	)
	if err != nil {
		log.Errorf("failed to compute mfu: %v", err)
		return
	}

	fields := log.Fields{
		"mean_samples_per_second": summary.MeanSamplesPerSecond,
		"mean_tokens_per_second":  summary.MeanTokensPerSecond,
		"max_tokens_theoretical":  result.TheoreticalPeakTokensPerSecond,
		"mean_mfu":                result.MFU,
	}
	if gpuBench != nil {
		means := gpuBench.Means()
		fields["mean_gpu_utilization_percent"] = means.MeanUtilizationPct
		fields["mean_gpu_memory_used_percent"] = means.MeanMemoryUsedPct
	}
	log.WithFields(fields).Info("run summary")

	// Only the global rank 0 process reports to the store.
	if settings.StoreEndpoint == "" || rank != 0 {
		return
	}
	handle := store.NewClient(settings.StoreEndpoint, settings.StoreApiKey).
		Run(*runName).
		UpdateSummary("mean_tokens_per_second", summary.MeanTokensPerSecond).
		UpdateSummary("mean_samples_per_second", summary.MeanSamplesPerSecond).
		UpdateSummary("mean_mfu", result.MFU).
		UpdateSummary("max_tokens_theoretical", result.TheoreticalPeakTokensPerSecond)
	if gpuBench != nil {
		means := gpuBench.Means()
		handle.UpdateSummary("mean_gpu_utilization_percent", means.MeanUtilizationPct)
	}
	if err := handle.Commit(ctx); err != nil {
		// A dead store never fails a finished run.
		log.Errorf("failed to report summary to store: %v", err)
	}
}
