// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

/*
Package services provides suture.Service wrappers for Aniora components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer so supervisor logs name it.

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe to Serve

Cache GC (CacheGCService):
  - Runs artwork cache garbage collection on a fixed interval
  - Counts runs by result in cache_gc_runs_total
*/
package services
