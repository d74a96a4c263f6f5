// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus collectors for HTTP traffic and the
// petition lifecycle, served at /metrics when METRICS_ENABLED is set.
package metrics
