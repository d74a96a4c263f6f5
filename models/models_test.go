// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Text
	}{
		{"string", `"Ban A"`, "Ban A"},
		{"escaped", `"a\"b"`, `a"b`},
		{"integer", `104`, "104"},
		{"float", `17.125`, "17.125"},
		{"negative", `-3.5`, "-3.5"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			require.Equal(t, tt.want, got)
		})
	}

	var bad Text
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &bad))
}

func TestText_Trimmed(t *testing.T) {
	require.Equal(t, "Ban A", Text("  Ban A\t").Trimmed())
	require.Empty(t, Text("   ").Trimmed())
}

func TestCreatePetitionRequest_Validate(t *testing.T) {
	valid := func() CreatePetitionRequest {
		return CreatePetitionRequest{Village: "Ban A", Topic: "Road", Detail: "Pothole", Lat: "17.1", Lng: "104.1"}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*CreatePetitionRequest)
	}{
		{"village", func(r *CreatePetitionRequest) { r.Village = "" }},
		{"topic", func(r *CreatePetitionRequest) { r.Topic = "  " }},
		{"detail", func(r *CreatePetitionRequest) { r.Detail = "\n" }},
		{"lat", func(r *CreatePetitionRequest) { r.Lat = "" }},
		{"lng", func(r *CreatePetitionRequest) { r.Lng = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			require.Error(t, r.Validate())
		})
	}
}

func TestCreatePetitionRequest_Petition(t *testing.T) {
	var r CreatePetitionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"village":" Ban A ","topic":"Road ","detail":" Pothole","lat":17.1,"lng":" 104.1 "}`), &r))
	require.Equal(t, NewPetition{Village: "Ban A", Topic: "Road", Detail: "Pothole", Lat: "17.1", Lng: "104.1"}, r.Petition())
}

func TestCreateUserRequest_Validate(t *testing.T) {
	require.NoError(t, CreateUserRequest{Username: "officer1", Password: "pw"}.Validate())
	require.Error(t, CreateUserRequest{Username: " ", Password: "pw"}.Validate())
	require.Error(t, CreateUserRequest{Username: "officer1", Password: ""}.Validate())
	// Name is optional
	require.NoError(t, CreateUserRequest{Username: "officer1", Password: "pw", Name: ""}.Validate())
}

func TestValidUsername(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abc", true},
		{"Field.Officer_2-b", true},
		{"ab", false},
		{"a23456789012345678901234567890", true},
		{"a234567890123456789012345678901", false},
		{"has space", false},
		{"thaiก", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ValidUsername(tt.in))
		})
	}
}

func TestImageList(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  []string
		array bool
	}{
		{"missing", ``, nil, false},
		{"null", `null`, nil, false},
		{"string", `"data:image/png;base64,AA=="`, nil, false},
		{"object", `{"a":"b"}`, nil, false},
		{"empty", `[]`, []string{}, true},
		{"mixed", `["a", 1, null, "  ", "b"]`, []string{"a", "b"}, true},
		{"capped", `["1","2","3","4","5","6","7","8","9","10"]`, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ImageList(json.RawMessage(tt.raw))
			require.Equal(t, tt.array, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCode(t *testing.T) {
	require.Equal(t, "SKN-2024-000001", FormatCode(2024, 1))
	require.Equal(t, "SKN-2025-999999", FormatCode(2025, 999999))
	require.Equal(t, "SKN-2025-1000000", FormatCode(2025, 1000000))
}

func TestMessage(t *testing.T) {
	require.Equal(t, "Not found", Message(ErrNotFound))
	require.Equal(t, Message(ErrServerError), Message("no_such_code"))
}

func TestUpdateUserRequest_StringFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantName string
		hasName  bool
		hasPass  bool
	}{
		{"both strings", `{"name":"A","password":"p"}`, "A", true, true},
		{"empty name", `{"name":""}`, "", true, false},
		{"number", `{"name":123,"password":1}`, "", false, false},
		{"null", `{"name":null}`, "", false, false},
		{"absent", `{}`, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r UpdateUserRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &r))
			name, ok := r.NameValue()
			require.Equal(t, tt.hasName, ok)
			require.Equal(t, tt.wantName, name)
			_, ok = r.PasswordValue()
			require.Equal(t, tt.hasPass, ok)
		})
	}
}
