// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Error codes returned in ErrorResponse.Error
const (
	ErrUnauthorized        = "unauthorized"
	ErrForbidden           = "forbidden"
	ErrInvalidCredentials  = "invalid_credentials"
	ErrMissingFields       = "missing_fields"
	ErrBadUsername         = "bad_username"
	ErrReservedUsername    = "reserved_username"
	ErrUsernameExists      = "username_exists"
	ErrNotFound            = "not_found"
	ErrImagesAfterNotArray = "imagesAfter_must_be_array"
	ErrCannotDeleteSuper   = "cannot_delete_super"
	ErrBadJSON             = "bad_json"
	ErrPayloadTooLarge     = "payload_too_large"
	ErrTooManyRequests     = "too_many_requests"
	ErrMissingUploadDir    = "missing_env_upload_dir"
	ErrServerError         = "server_error"
)

var messages = map[string]string{
	ErrUnauthorized:        "Officer login required",
	ErrForbidden:           "Only the super admin may access this page",
	ErrInvalidCredentials:  "Incorrect username or password",
	ErrMissingFields:       "Please fill in all required fields",
	ErrBadUsername:         "Username must be 3-30 characters of a-z A-Z 0-9 . _ -",
	ErrReservedUsername:    "This username is reserved for the super admin",
	ErrUsernameExists:      "This username already exists",
	ErrNotFound:            "Not found",
	ErrImagesAfterNotArray: "imagesAfter must be an array",
	ErrCannotDeleteSuper:   "The super admin account cannot be deleted",
	ErrBadJSON:             "Malformed JSON body",
	ErrPayloadTooLarge:     "Request body is too large; send fewer or smaller images",
	ErrTooManyRequests:     "Too many attempts, try again later",
	ErrMissingUploadDir:    "Image upload storage is not configured",
	ErrServerError:         "Internal server error",
}

// Message returns the human readable text for an error code.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[ErrServerError]
}
