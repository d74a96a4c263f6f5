package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Petition status and timeline defaults
const (
	StatusReceived = "received"
	NoteReceived   = "petition received"
)

// Image kinds
const (
	KindBefore = "before"
	KindAfter  = "after"
)

// MaxImagesPerBatch caps how many images a single submission may attach.
const MaxImagesPerBatch = 8

// Text is a string field that also accepts JSON numbers, booleans and null.
// Coordinates posted by map widgets arrive as numbers as often as strings.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*t = Text(b)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*t = Text(n.String())
		return nil
	}
}

// Trimmed returns the value without surrounding whitespace.
func (t Text) Trimmed() string {
	return strings.TrimSpace(string(t))
}

// Request types

type LoginRequest struct {
	Username Text `json:"username"`
	Password Text `json:"password"`
}

type CreatePetitionRequest struct {
	Village      Text            `json:"village" validate:"required"`
	Topic        Text            `json:"topic" validate:"required"`
	Detail       Text            `json:"detail" validate:"required"`
	Lat          Text            `json:"lat" validate:"required"`
	Lng          Text            `json:"lng" validate:"required"`
	ImagesBefore json.RawMessage `json:"imagesBefore,omitempty"`
}

type UpdateStatusRequest struct {
	Status Text `json:"status"`
	Note   Text `json:"note"`
}

type AfterImagesRequest struct {
	ImagesAfter json.RawMessage `json:"imagesAfter"`
}

type CreateUserRequest struct {
	Username Text `json:"username" validate:"required"`
	Password Text `json:"password" validate:"required"`
	Name     Text `json:"name"`
}

// Only fields present in the body are applied.
type UpdateUserRequest struct {
	Name     json.RawMessage `json:"name"`
	Password json.RawMessage `json:"password"`
}

// Response types

type OKResponse struct {
	OK bool `json:"ok"`
}

type PingResponse struct {
	OK           bool      `json:"ok"`
	Time         time.Time `json:"time"`
	Database     string    `json:"database"`
	HasDatabase  bool      `json:"hasDatabase"`
	ImageStorage string    `json:"imageStorage"`
	Metrics      bool      `json:"metrics"`
}

type LoginResponse struct {
	OK        bool   `json:"ok"`
	IsOfficer bool   `json:"isOfficer"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	IsSuper   bool   `json:"isSuper"`
}

type MeResponse struct {
	OK        bool   `json:"ok"`
	IsOfficer bool   `json:"isOfficer"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	IsSuper   bool   `json:"isSuper"`
}

// AnonymousMeResponse answers /api/me without a valid session; identity
// fields are left out entirely.
type AnonymousMeResponse struct {
	OK        bool `json:"ok"`
	IsOfficer bool `json:"isOfficer"`
}

type CreatePetitionResponse struct {
	OK   bool   `json:"ok"`
	Code string `json:"code"`
}

type PetitionResponse struct {
	OK   bool     `json:"ok"`
	Item Petition `json:"item"`
}

type PetitionListResponse struct {
	OK    bool       `json:"ok"`
	Items []Petition `json:"items"`
}

type UserListResponse struct {
	OK    bool        `json:"ok"`
	Users []AdminUser `json:"users"`
}

// Domain types

type TimelineEntry struct {
	Title string `json:"title"`
	Time  string `json:"time"`
	Note  string `json:"note"`
}

type Petition struct {
	Code         string          `json:"code"`
	Village      string          `json:"village"`
	Topic        string          `json:"topic"`
	Detail       string          `json:"detail"`
	Lat          string          `json:"lat"`
	Lng          string          `json:"lng"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Timeline     []TimelineEntry `json:"timeline"`
	ImagesBefore []string        `json:"imagesBefore"`
	ImagesAfter  []string        `json:"imagesAfter"`
}

// NewPetition is the validated, trimmed input for a citizen submission.
type NewPetition struct {
	Village string
	Topic   string
	Detail  string
	Lat     string
	Lng     string
}

type AdminUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	IsSuper  bool   `json:"isSuper"`
}

// Error response

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FormatCode renders a petition code, SKN-<year>-<zero padded serial>.
func FormatCode(year int, serial int64) string {
	return fmt.Sprintf("SKN-%04d-%06d", year, serial)
}
