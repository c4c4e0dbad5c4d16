package authsvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/session"
)

func testClient(baseURL string) *Client {
	conf := &core.Config{}
	conf.API.BaseURL = baseURL
	conf.API.Timeout = 2 * time.Second
	return NewClient(conf)
}

func TestClientLogin(t *testing.T) {
	want := session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       7,
		UserName:     "jdoe",
		Employee:     session.Employee{FullName: "Jane Doe", IsActive: true},
		Permissions: []session.Permission{
			{UserID: 7, RoleName: "Secretaria", Module: "view_students", AccessType: "read"},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var creds session.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "jdoe", creds.UserName)
		assert.True(t, creds.RememberMe)

		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Login(context.Background(), session.Credentials{
		UserName:   "jdoe",
		Password:   "pwd",
		RememberMe: true,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{
			name:    "401 authentication",
			status:  http.StatusUnauthorized,
			body:    `{"message":"Usuario o contraseña incorrectos"}`,
			wantErr: core.IsAuthenticationError,
		},
		{
			name:   "400 validation",
			status: http.StatusBadRequest,
			body:   `{"message":"Datos inválidos"}`,
			wantErr: func(err error) bool {
				var vErr *core.ValidationError
				return errors.As(err, &vErr)
			},
		},
		{
			name:   "422 validation",
			status: http.StatusUnprocessableEntity,
			body:   `{}`,
			wantErr: func(err error) bool {
				var vErr *core.ValidationError
				return errors.As(err, &vErr)
			},
		},
		{
			name:    "500 server error",
			status:  http.StatusInternalServerError,
			body:    `{"message":"boom"}`,
			wantErr: func(err error) bool { return err != nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Login(context.Background(), session.Credentials{
				UserName: "jdoe",
				Password: "pwd",
			})
			require.Error(t, err)
			if !tt.wantErr(err) {
				t.Errorf("Login() error = %v (%T), wrong taxonomy", err, err)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // unreachable

	_, err := testClient(srv.URL).Login(context.Background(), session.Credentials{
		UserName: "jdoe",
		Password: "pwd",
	})
	require.Error(t, err)
	if !core.IsNetworkError(err) {
		t.Errorf("Login() error = %v (%T), want NetworkError", err, err)
	}
}

func TestClientLogoutSendsBearer(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testClient(srv.URL).Logout(context.Background(), 7, "refresh", "access")
	require.NoError(t, err)
	assert.Equal(t, "Bearer access", gotAuth)
	assert.Equal(t, float64(7), gotBody["userId"])
	assert.Equal(t, "refresh", gotBody["refreshToken"])
}

func TestClientRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh-token", r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "refresh", body["refreshToken"])
		_ = json.NewEncoder(w).Encode(session.Session{AccessToken: "renewed"})
	}))
	defer srv.Close()

	sess, err := testClient(srv.URL).Refresh(context.Background(), "refresh")
	require.NoError(t, err)
	assert.Equal(t, "renewed", sess.AccessToken)
}

func TestClientForgotPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/forgot-password", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "check your inbox"})
	}))
	defer srv.Close()

	msg, err := testClient(srv.URL).ForgotPassword(context.Background(), session.ForgotPassword{
		Username: "jdoe",
		Email:    "jdoe@test.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "check your inbox", msg)
}

func TestClientChangePassword(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/change-password", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, float64(7), body["userId"])
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "password changed"})
	}))
	defer srv.Close()

	msg, err := testClient(srv.URL).ChangePassword(context.Background(), "access", 7, session.ChangePassword{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer access", gotAuth)
	assert.Equal(t, "password changed", msg)
}
