// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,30}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Required text fields must be non-blank after trimming.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if t, ok := field.Interface().(Text); ok {
			return t.Trimmed()
		}
		return nil
	}, Text(""))
	_ = v.RegisterValidation("officer_username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidUsername reports whether s is an acceptable officer username.
func ValidUsername(s string) bool {
	return validate.Var(s, "officer_username") == nil
}

// Validate checks that every required field is present.
func (r CreatePetitionRequest) Validate() error {
	return validate.Struct(r)
}

// Petition returns the trimmed submission.
func (r CreatePetitionRequest) Petition() NewPetition {
	return NewPetition{
		Village: r.Village.Trimmed(),
		Topic:   r.Topic.Trimmed(),
		Detail:  r.Detail.Trimmed(),
		Lat:     r.Lat.Trimmed(),
		Lng:     r.Lng.Trimmed(),
	}
}

// Validate checks that username and password are present. Username format
// is checked separately with ValidUsername so the two failures map to
// different error codes.
func (r CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// NameValue returns the requested display name. Values that are not JSON
// strings are ignored.
func (r UpdateUserRequest) NameValue() (string, bool) {
	return stringField(r.Name)
}

// PasswordValue returns the requested password, ignoring non-string values.
func (r UpdateUserRequest) PasswordValue() (string, bool) {
	return stringField(r.Password)
}

func stringField(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ImageList extracts at most MaxImagesPerBatch string entries from a JSON
// array. Non-string entries are dropped. The second result is false when raw
// is missing or is not an array.
func ImageList(raw json.RawMessage) ([]string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if len(items) > MaxImagesPerBatch {
		items = items[:MaxImagesPerBatch]
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err != nil {
			continue
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out, true
}
