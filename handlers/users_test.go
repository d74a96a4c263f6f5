// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/images"
	"github.com/danielhkuo/petition-desk/models"
	"github.com/danielhkuo/petition-desk/testutil"
)

func TestUsers_RequireSuperAdmin(t *testing.T) {
	env := newTestEnv(t, images.InlineSink{})

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/admin/users", nil},
		{"POST", "/api/admin/users", map[string]string{"username": "newbie", "password": "pw"}},
		{"PATCH", "/api/admin/users/" + testutil.OfficerUsername, map[string]string{"name": "x"}},
		{"DELETE", "/api/admin/users/" + testutil.OfficerUsername, nil},
	}

	for _, rq := range requests {
		t.Run(rq.method, func(t *testing.T) {
			w := env.do(t, rq.method, rq.path, rq.body, "")
			testutil.AssertError(t, w, http.StatusUnauthorized, models.ErrUnauthorized)

			w = env.do(t, rq.method, rq.path, rq.body, testutil.OfficerUsername)
			testutil.AssertError(t, w, http.StatusForbidden, models.ErrForbidden)
		})
	}

	_, err := env.store.FindUser(t.Context(), testutil.OfficerUsername)
	require.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t, images.InlineSink{})
	testutil.CreateTestUser(t, env.store, "alice", "pw", "Alice")

	w := env.do(t, "GET", "/api/admin/users", nil, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.UserListResponse
	testutil.AssertJSON(t, w, &resp)
	require.True(t, resp.OK)
	require.Equal(t, []models.AdminUser{
		{Username: "alice", Name: "Alice"},
		{Username: testutil.OfficerUsername, Name: testutil.OfficerName},
		{Username: testutil.SuperUsername, Name: "Super Admin", IsSuper: true},
	}, resp.Users)
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t, images.InlineSink{})

	w := env.do(t, "POST", "/api/admin/users", map[string]string{
		"username": " field.officer-2 ",
		"password": "s3cret",
		"name":     " Field Officer ",
	}, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)

	u, err := env.store.FindUser(t.Context(), "field.officer-2")
	require.NoError(t, err)
	require.Equal(t, "Field Officer", u.Name)
	require.True(t, auth.CheckPassword("s3cret", u.PasswordHash))

	// The new account can log in
	w = env.do(t, "POST", "/api/login", map[string]string{
		"username": "field.officer-2",
		"password": "s3cret",
	}, "")
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestCreateUser_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"missing username", map[string]string{"password": "pw"}, http.StatusBadRequest, models.ErrMissingFields},
		{"blank password", map[string]string{"username": "newbie", "password": "  "}, http.StatusBadRequest, models.ErrMissingFields},
		{"too short", map[string]string{"username": "ab", "password": "pw"}, http.StatusBadRequest, models.ErrBadUsername},
		{"bad characters", map[string]string{"username": "bad name!", "password": "pw"}, http.StatusBadRequest, models.ErrBadUsername},
		{"reserved", map[string]string{"username": testutil.SuperUsername, "password": "pw"}, http.StatusBadRequest, models.ErrReservedUsername},
		{"reserved any case", map[string]string{"username": "SuperAdmin", "password": "pw"}, http.StatusBadRequest, models.ErrReservedUsername},
		{"duplicate", map[string]string{"username": testutil.OfficerUsername, "password": "pw"}, http.StatusConflict, models.ErrUsernameExists},
		{"duplicate any case", map[string]string{"username": "Officer1", "password": "pw"}, http.StatusConflict, models.ErrUsernameExists},
		{"bad json", "{", http.StatusBadRequest, models.ErrBadJSON},
	}

	env := newTestEnv(t, images.InlineSink{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "POST", "/api/admin/users", tt.body, testutil.SuperUsername)
			testutil.AssertError(t, w, tt.status, tt.code)
		})
	}

	users, err := env.store.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t, images.InlineSink{})

	// Name only; password untouched
	w := env.do(t, "PATCH", "/api/admin/users/"+testutil.OfficerUsername,
		map[string]string{"name": "  Renamed  "}, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)

	u, err := env.store.FindUser(t.Context(), testutil.OfficerUsername)
	require.NoError(t, err)
	require.Equal(t, "Renamed", u.Name)
	require.True(t, auth.CheckPassword(testutil.OfficerPassword, u.PasswordHash))

	// Blank password is ignored
	w = env.do(t, "PATCH", "/api/admin/users/"+testutil.OfficerUsername,
		map[string]string{"password": "   "}, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)
	u, err = env.store.FindUser(t.Context(), testutil.OfficerUsername)
	require.NoError(t, err)
	require.True(t, auth.CheckPassword(testutil.OfficerPassword, u.PasswordHash))

	// Password change, target matched case-insensitively
	w = env.do(t, "PATCH", "/api/admin/users/OFFICER1",
		map[string]string{"password": "new-pass"}, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)
	u, err = env.store.FindUser(t.Context(), testutil.OfficerUsername)
	require.NoError(t, err)
	require.Equal(t, "Renamed", u.Name)
	require.True(t, auth.CheckPassword("new-pass", u.PasswordHash))

	w = env.do(t, "PATCH", "/api/admin/users/ghost",
		map[string]string{"name": "x"}, testutil.SuperUsername)
	testutil.AssertError(t, w, http.StatusNotFound, models.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t, images.InlineSink{})

	for _, name := range []string{testutil.SuperUsername, "SUPERADMIN"} {
		w := env.do(t, "DELETE", "/api/admin/users/"+name, nil, testutil.SuperUsername)
		testutil.AssertError(t, w, http.StatusBadRequest, models.ErrCannotDeleteSuper)
	}

	w := env.do(t, "DELETE", "/api/admin/users/Officer1", nil, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = env.do(t, "DELETE", "/api/admin/users/"+testutil.OfficerUsername, nil, testutil.SuperUsername)
	testutil.AssertError(t, w, http.StatusNotFound, models.ErrNotFound)

	users, err := env.store.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, testutil.SuperUsername, users[0].Username)
}

func TestUpdateUser_NonStringFieldsIgnored(t *testing.T) {
	env := newTestEnv(t, images.InlineSink{})

	bodies := []string{
		`{"name":123}`,
		`{"password":false}`,
		`{"name":null,"password":["x"]}`,
	}
	for _, body := range bodies {
		w := env.do(t, "PATCH", "/api/admin/users/"+testutil.OfficerUsername, body, testutil.SuperUsername)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	u, err := env.store.FindUser(t.Context(), testutil.OfficerUsername)
	require.NoError(t, err)
	require.Equal(t, testutil.OfficerName, u.Name)
	require.True(t, auth.CheckPassword(testutil.OfficerPassword, u.PasswordHash))

	// A string field next to a non-string one still applies
	w := env.do(t, "PATCH", "/api/admin/users/"+testutil.OfficerUsername,
		`{"name":" Night Shift ","password":42}`, testutil.SuperUsername)
	testutil.AssertStatus(t, w, http.StatusOK)
	u, err = env.store.FindUser(t.Context(), testutil.OfficerUsername)
	require.NoError(t, err)
	require.Equal(t, "Night Shift", u.Name)
	require.True(t, auth.CheckPassword(testutil.OfficerPassword, u.PasswordHash))
}
