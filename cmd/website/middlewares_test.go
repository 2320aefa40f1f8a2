package main

import (
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gob.Register(&models.Client{})
	gob.Register(&models.Profile{})
}

func newTestAdminSession() sessions.Session[*models.Profile] {
	store := sessions.NewCookieStore("test-admin-secret")
	return sessions.NewSessionWrapper[*models.Profile](store, "testadmins", "profile")
}

func profileEcho(w http.ResponseWriter, r *http.Request) {
	profile := viewmodels.GetProfileFromContext(r)
	_, _ = w.Write([]byte(profile.Email))
}

/*
signIn stores profile in a session and returns the cookies a browser would
send back.
*/
func signIn(t *testing.T, sessionService sessions.Session[*models.Profile], profile *models.Profile) []*http.Cookie {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	w := httptest.NewRecorder()

	require.NoError(t, sessionService.Set(r, profile))
	require.NoError(t, sessionService.Save(w, r))

	return w.Result().Cookies()
}

func TestAdminMiddlewareWithoutSession(t *testing.T) {
	handler := newAdminMiddleware(newTestAdminSession(), "/admin/login", false)(http.HandlerFunc(profileEcho))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodPost, "/admin/settings", nil)
	r.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("HX-Redirect"))
}

func TestAdminMiddlewareJSON(t *testing.T) {
	handler := newAdminMiddleware(newTestAdminSession(), "/admin/login", true)(http.HandlerFunc(profileEcho))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/shoots/1/gallery", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"sign in required"}`, w.Body.String())
}

func TestAdminMiddlewareWithSession(t *testing.T) {
	sessionService := newTestAdminSession()
	handler := newAdminMiddleware(sessionService, "/admin/login", false)(http.HandlerFunc(profileEcho))

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "admin is let through", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "staff is sent to login", role: models.RoleStaff, wantStatus: http.StatusTemporaryRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := signIn(t, sessionService, &models.Profile{
				BaseModel: models.BaseModel{ID: 1},
				Email:     "owner@example.com",
				Role:      tt.role,
			})

			r := httptest.NewRequest(http.MethodGet, "/admin", nil)

			for _, cookie := range cookies {
				r.AddCookie(cookie)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "owner@example.com", w.Body.String())
			}
		})
	}
}

func TestClientAccessMiddleware(t *testing.T) {
	store := sessions.NewCookieStore("test-client-secret")
	sessionService := sessions.NewSessionWrapper[*models.Client](store, "testclients", "client")

	handler := newClientAccessMiddleware(sessionService, []string{"/client/login"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(viewmodels.GetClientFromContext(r).Name))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/client", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/client/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/client/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r := httptest.NewRequest(http.MethodPost, "/client/login", nil)
	recorder := httptest.NewRecorder()
	require.NoError(t, sessionService.Set(r, &models.Client{BaseModel: models.BaseModel{ID: 3}, Name: "Jamie"}))
	require.NoError(t, sessionService.Save(recorder, r))

	r = httptest.NewRequest(http.MethodGet, "/client", nil)

	for _, cookie := range recorder.Result().Cookies() {
		r.AddCookie(cookie)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jamie", w.Body.String())
}
