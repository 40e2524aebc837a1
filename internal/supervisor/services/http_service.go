// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the subset of *http.Server lifecycle methods the service
// needs.
//
// Keeping the dependency behind an interface lets tests drive the service
// with a fake server that fails on listen or on shutdown.
//
// Satisfied by *http.Server from net/http:
//   - ListenAndServe() error
//   - Shutdown(ctx context.Context) error
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the recommendation API server under supervision.
//
// http.Server blocks in ListenAndServe while suture expects a Serve method
// that returns when its context ends. The service bridges the two:
//
//  1. ListenAndServe runs in its own goroutine
//  2. Serve waits for a listener error or context cancellation
//  3. Cancellation triggers Shutdown, bounded by shutdownTimeout
//
// A listener failure (port in use, for example) is returned so the api
// layer supervisor restarts the server with backoff.
//
// Example usage:
//
//	server := &http.Server{Addr: ":8501", Handler: router}
//	svc := services.NewHTTPServerService(server, 10*time.Second)
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService creates a new HTTP server service wrapper.
//
// shutdownTimeout bounds how long in-flight requests (enrichment fan-outs
// included) may take to drain during graceful shutdown. A non-positive
// value becomes 10 seconds, matching server.shutdown_timeout's default.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service.
//
// It returns:
//   - a wrapped error when ListenAndServe fails, so the supervisor restarts
//   - a wrapped error when Shutdown misses its deadline
//   - ctx.Err() after a clean shutdown
//
// http.ErrServerClosed is the expected result of Shutdown and is not
// reported as a failure.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled; shutdown needs its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
// Suture uses it to name the service in its event log.
func (h *HTTPServerService) String() string {
	return h.name
}
