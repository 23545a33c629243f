// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package services provides suture.Service implementations for Classmatch.

# Available Services

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine;
cancellation triggers Shutdown with a bounded timeout.

CatalogReloadService reloads the catalog on a cron schedule (robfig/cron).
Overlapping runs are skipped, each run gets its own timeout and correlation
id, and failures are logged without stopping the service.

	reload, err := services.NewCatalogReloadService(repo, "@every 15m", 2*time.Minute)
	if err != nil {
		return err
	}
	tree.AddCatalogService(reload)
*/
package services
