// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package config loads Classmatch configuration with Koanf v2.

# Sources

Configuration is layered; later sources override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/classmatch/config.yaml or /etc/classmatch/config.yml
 3. Environment variables listed in envMappings

Environment variables that are not listed are ignored.

# Sections

	server:
	  port: 8080
	  host: 0.0.0.0
	  environment: development   # development, staging, production
	  cors_origins: ["*"]
	  rate_limit_reqs: 100
	  rate_limit_window: 1m
	  reload_interval: 30s       # minimum spacing of manual catalog reloads
	logging:
	  level: info
	  format: json
	catalog:
	  path: data/catalog.json
	  url: ""                    # takes precedence over path
	  format: auto
	  reload_schedule: "@every 15m"
	  snapshot_path: ""          # badger dir for the last-known-good catalog
	recommend:
	  strategy: ml               # ml or rules
	  default_top_n: 10
	  max_top_n: 100
	  seed: 42
	  rules:
	    low_familiarity: 0.5
	    min_ease_of_use: 0.7
	    offline_connectivity: 0.4
	  classifier:
	    max_depth: 5
	    trust_threshold: 1.0
	  cluster:
	    k: 3                     # 0 selects k by silhouette
	  blend:
	    base: 0.30
	    association: 0.35
	    similarity: 0.35

# Environment Variables

Common overrides:

	HTTP_PORT, HTTP_HOST, ENVIRONMENT, CORS_ORIGINS (comma-separated)
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
	CATALOG_PATH, CATALOG_URL, CATALOG_FORMAT, CATALOG_RELOAD_SCHEDULE
	RECOMMEND_STRATEGY, RECOMMEND_SEED, RECOMMEND_CLUSTER_K,
	RECOMMEND_TREE_TRUST_THRESHOLD

# Conversion

The recommend and catalog sections are plain koanf structs. RecommendConfig
and CatalogConfig convert them into the types the engine and the catalog
repository consume, so those packages stay free of koanf tags.
*/
package config
