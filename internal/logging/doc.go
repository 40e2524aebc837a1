// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package logging provides the process-wide zerolog logger for Aniora.
//
// Output is JSON by default and console-formatted for local runs. Request
// scoped logging goes through Ctx, which adds request and correlation IDs
// stored in the context by the HTTP middleware.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Debug().Str("title", title).Msg("query resolved")
//
// Components take a zerolog.Logger at construction and derive a child
// with a component field:
//
//	logger := logging.WithComponent("recommend")
//
// # slog
//
// NewSlogLogger bridges slog consumers (sutureslog) onto the same output.
package logging
