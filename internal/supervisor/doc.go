// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

/*
Package supervisor provides process supervision for Aniora using suture v4.

The recommendation engine itself is built once at startup and needs no
supervision. What runs for the life of the process are the HTTP server and,
when enrichment is enabled, artwork cache maintenance. Both are organized
into a small tree for failure isolation:

	RootSupervisor ("aniora")
	├── DataSupervisor ("data-layer")
	│   └── CacheGCService (if enrich.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog on top of the zerolog-backed slog handler from the
logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCacheGCService(cache, interval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

	if report, _ := tree.UnstoppedServiceReport(); len(report) > 0 {
	    logger.Warn().Int("count", len(report)).Msg("services failed to stop")
	}

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
