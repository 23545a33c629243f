// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package catalog loads the educational technology catalog and serves it to the
recommendation engine.

A Repository fetches a document from a Source, decodes it as JSON or YAML,
validates every resource and publishes the result as an immutable snapshot
with a monotonically increasing version. Readers obtain the current snapshot
with a single atomic load; a reload never blocks them and never exposes a
partially built catalog.

# Sources

  - FileSource: a local file (the default, data/catalog.json)
  - HTTPSource: a remote URL, retried with exponential backoff
  - BreakerSource: wraps a remote source with a gobreaker circuit breaker

# Snapshots

With a SnapshotStore attached, every newly published document is also saved
to BadgerDB. When the source is unreachable at startup, Restore publishes the
saved document and Status reports from_snapshot until a reload succeeds.

# Document Format

The document is either a list of resources or an object with a "resources"
key. Field names are snake_case in both encodings:

	{
	  "resources": [
	    {
	      "id": "geogebra",
	      "name": "GeoGebra",
	      "area": "Mathematics",
	      "ease_of_use": 0.8,
	      "engagement_potential": 0.85,
	      "pedagogical_adaptability": 0.95,
	      "infrastructure_requirements": 0.6,
	      "cost_accessibility": 1.0,
	      "tags": ["investigative", "visual"],
	      "modalities": ["in_person", "remote", "hybrid"],
	      "devices": ["computer", "tablet", "smartphone"],
	      "has_assessment": false,
	      "offline_capable": true
	    }
	  ]
	}

Resource order is preserved. It breaks ties between equal scores.

# Reloads

Reload is safe to call concurrently; calls are serialized. A document whose
SHA-256 matches the current snapshot is not decoded again and keeps its
version. A failed reload leaves the previous snapshot in place.
*/
package catalog
