// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package supervisor runs Classmatch's long-lived services under a suture v4
supervisor tree.

	classmatch (root)
	├── catalog-layer
	│   └── catalog-reload
	└── api-layer
	    └── http-server

A service that returns an error is restarted with backoff. Repeated failures
in one layer put only that layer into backoff. Supervisor events are logged
through sutureslog into the zerolog pipeline.
*/
package supervisor
