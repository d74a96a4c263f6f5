// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package logging builds the process slog logger from LOG_LEVEL and LOG_JSON.
package logging
