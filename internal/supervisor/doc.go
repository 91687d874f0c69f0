// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package supervisor provides process supervision for InsightOps using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("insightops")
	├── DataSupervisor ("data-layer")
	│   ├── changefeed.Forwarder (events.changed -> websocket hub)
	│   └── BadgerGCService (STORAGE_BACKEND=badger only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket.Hub
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService
	    └── auth.LoginLimiter (idle entry cleanup)

Each layer counts failures independently, so a forwarder crash restarts the
forwarder without dropping HTTP connections. Crashed services restart with
backoff once FailureThreshold is exceeded.

Events (start, stop, failure, backoff) are logged through sutureslog into
the zerolog-backed slog handler from the logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(forwarder)
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for wrappers adapting other lifecycles.
*/
package supervisor
