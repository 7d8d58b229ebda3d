// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/AMD-AGI/Primus-Bench/pkg/errors"
	"github.com/AMD-AGI/Primus-Bench/pkg/logger/log"
)

const (
	runsAPI       = "/v1/runs"
	runSummaryAPI = "/v1/runs/%s/summary"

	defaultTimeout  = 30 * time.Second
	maxRetryElapsed = 2 * time.Minute
)

type metaEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client is the experiment-store HTTP client. Transient failures are
// retried with exponential backoff before an error is surfaced.
type Client struct {
	restyClient *resty.Client
	baseURL     string
}

func NewClient(endpoint, apiKey string) *Client {
	restyClient := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(defaultTimeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		restyClient.SetAuthToken(apiKey)
	}
	return &Client{
		restyClient: restyClient,
		baseURL:     endpoint,
	}
}

// ListRuns returns every run carrying the given tag.
func (c *Client) ListRuns(ctx context.Context, tag string) ([]Run, error) {
	var result struct {
		Meta metaEnvelope `json:"meta"`
		Data []Run        `json:"data"`
	}

	operation := func() error {
		resp, err := c.restyClient.R().
			SetContext(ctx).
			SetQueryParam("tag", tag).
			SetResult(&result).
			Get(runsAPI)
		if err != nil {
			return err
		}
		return checkStatus(resp)
	}
	if err := c.retry(ctx, operation); err != nil {
		return nil, errors.WrapError(err,
			fmt.Sprintf("list runs with tag %q from %s", tag, c.baseURL),
			errors.CodeMetricsStoreError)
	}

	log.Infof("listed %d runs with tag %q from %s", len(result.Data), tag, c.baseURL)
	return result.Data, nil
}

// Run returns a handle for buffering summary updates to one run.
func (c *Client) Run(runID string) *RunHandle {
	return &RunHandle{
		client:  c,
		runID:   runID,
		pending: map[string]interface{}{},
	}
}

// checkStatus classifies a non-200 response: client errors are permanent,
// everything else is worth a retry.
func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code == http.StatusOK {
		return nil
	}
	err := fmt.Errorf("store returned status %d: %s", code, resp.String())
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return backoff.Permanent(err)
	}
	return err
}

func (c *Client) retry(ctx context.Context, operation func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxRetryElapsed
	return backoff.RetryNotify(operation, backoff.WithContext(policy, ctx),
		func(err error, wait time.Duration) {
			log.Warnf("store request failed, retrying in %v: %v", wait, err)
		})
}

// RunHandle buffers summary mutations for one run. Nothing is written to the
// store until Commit; a handle that is mutated and dropped without Commit
// writes nothing.
type RunHandle struct {
	client  *Client
	runID   string
	pending map[string]interface{}
}

func (h *RunHandle) UpdateSummary(key string, value interface{}) *RunHandle {
	h.pending[key] = value
	return h
}

// Commit flushes the buffered summary updates. After a successful commit the
// buffer is empty and the handle can be reused.
func (h *RunHandle) Commit(ctx context.Context) error {
	if len(h.pending) == 0 {
		return nil
	}

	var result struct {
		Meta metaEnvelope `json:"meta"`
	}
	operation := func() error {
		resp, err := h.client.restyClient.R().
			SetContext(ctx).
			SetBody(h.pending).
			SetResult(&result).
			Patch(fmt.Sprintf(runSummaryAPI, h.runID))
		if err != nil {
			return err
		}
		return checkStatus(resp)
	}
	if err := h.client.retry(ctx, operation); err != nil {
		return errors.WrapError(err,
			fmt.Sprintf("commit summary of run %s", h.runID),
			errors.CodeMetricsStoreError)
	}

	log.Infof("committed %d summary fields for run %s", len(h.pending), h.runID)
	h.pending = map[string]interface{}{}
	return nil
}
