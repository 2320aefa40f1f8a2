package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/studiosite/pkg/models"
)

func newClientAccessMiddleware(sessionService sessions.Session[*models.Client], excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err           error
				sessionClient *models.Client
			)

			if isExcluded(r.URL.Path, excludedPaths) {
				next.ServeHTTP(w, r)
				return
			}

			if sessionClient, err = sessionService.Get(r); err != nil || sessionClient == nil || sessionClient.ID == 0 {
				http.Redirect(w, r, "/client/login", http.StatusTemporaryRedirect)
				return
			}

			ctx := context.WithValue(r.Context(), "client", sessionClient)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

/*
newAdminMiddleware guards the back-office. Pages redirect to the admin login;
the JSON API gets a 401 instead since a redirect means nothing to fetch().
*/
func newAdminMiddleware(sessionService sessions.Session[*models.Profile], loginPath string, asJSON bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := sessionService.Get(r)

			if err != nil || !profile.IsAdmin() {
				if asJSON {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"sign in required"}`))
					return
				}

				if httphelpers.IsHtmx(r) {
					w.Header().Set("HX-Redirect", loginPath)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}

				http.Redirect(w, r, loginPath, http.StatusTemporaryRedirect)
				return
			}

			ctx := context.WithValue(r.Context(), "profile", profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isExcluded(path string, excludedPaths []string) bool {
	for _, excludedPath := range excludedPaths {
		if strings.HasPrefix(path, excludedPath) {
			return true
		}
	}

	return false
}
