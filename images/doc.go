// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package images decodes data-URL photos submitted with petitions and hands
// them to a Sink.
//
// Two sinks exist. InlineSink records the data URL itself, which keeps a
// single-file deployment self-contained. DiskSink writes the decoded bytes
// through afero under petitions/<code>/<kind>-<unixms>-<index>.<ext> and
// records a URL below the configured base path.
package images
