// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

// Package server hosts the health and metrics endpoint of the benchmark
// processes. Every binary exposes /metrics plus whatever status routes it
// registers before InitHealthServer.
package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
)

var (
	once     sync.Once
	engine   *gin.Engine
	engineMu sync.RWMutex

	registers   = []func(g *gin.RouterGroup){}
	registersMu sync.Mutex

	defaultGather prometheus.Gatherer = prometheus.DefaultGatherer
)

func init() {
	AddRegister(addMetrics)
}

// SetDefaultGather replaces the gatherer behind /metrics.
func SetDefaultGather(gather prometheus.Gatherer) {
	defaultGather = gather
}

// AddRegister queues a route registration to run when the server starts.
func AddRegister(register func(g *gin.RouterGroup)) {
	registersMu.Lock()
	defer registersMu.Unlock()
	registers = append(registers, register)
}

// AddDefaultRegister queues a GET route that renders the method's result as
// JSON, or a 500 with the error message.
func AddDefaultRegister(path string, method func() (interface{}, error)) {
	AddRegister(func(g *gin.RouterGroup) {
		g.GET(path, func(c *gin.Context) {
			data, err := method()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, data)
		})
	})
}

func addMetrics(g *gin.RouterGroup) {
	handler := promhttp.HandlerFor(defaultGather, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	g.GET("/metrics", gin.WrapH(handler))
}

// InitHealthServer starts the health server in the background. Subsequent
// calls are no-ops.
func InitHealthServer(port int) {
	once.Do(func() {
		engineMu.Lock()
		engine = gin.New()
		engine.Use(gin.Recovery())
		group := engine.Group("")
		registersMu.Lock()
		for _, register := range registers {
			register(group)
		}
		registersMu.Unlock()
		e := engine
		engineMu.Unlock()

		go func() {
			if err := e.Run(fmt.Sprintf(":%d", port)); err != nil {
				log.Errorf("health server exited: %v", err)
			}
		}()
	})
}
