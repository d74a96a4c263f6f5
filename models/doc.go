// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: username, password
  - CreatePetitionRequest: village, topic, detail, lat, lng, imagesBefore
  - UpdateStatusRequest: status, note
  - AfterImagesRequest: imagesAfter
  - CreateUserRequest: username, password, name
  - UpdateUserRequest: optional name and password

Text fields accept JSON strings, numbers, booleans or null, so a map widget
may post coordinates either way. Image lists are kept raw and read with
ImageList, which caps a batch at MaxImagesPerBatch.

# Response Types

Every response carries "ok". Failures use ErrorResponse with a stable
machine code from errors.go and a readable message:

	{"ok": false, "error": "not_found", "message": "Not found"}

# Domain Types

  - Petition: a citizen request with its timeline and images
  - TimelineEntry: one status change, time rendered as dd/MM/yyyy HH:mm:ss
  - AdminUser: an officer account as listed to the super admin

Petition codes have the form SKN-<year>-<serial>, see FormatCode.
*/
package models
