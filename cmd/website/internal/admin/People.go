package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
)

/*
GET /admin/staff
*/
func (c AdminController) StaffPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.staffViewModel(r)
	c.renderer.Render("pages/admin/staff", viewData, w)
}

/*
POST /admin/staff
*/
func (c AdminController) StaffCreateAction(w http.ResponseWriter, r *http.Request) {
	profile := &models.Profile{}
	profileFromForm(r, profile)

	if err := c.profileService.Create(profile, httphelpers.GetFromRequest[string](r, "password")); err != nil {
		viewData := c.staffViewModel(r)
		viewData.Form = *profile
		viewData.IsWarning = true
		viewData.Message = staffErrorMessage(err)

		if viewData.Message == "" {
			slog.Error("error creating staff profile", "error", err, "email", profile.Email)
			viewData.IsWarning = false
			viewData.IsError = true
			viewData.Message = "An unexpected error occurred saving this person."
		}

		c.renderer.Render("pages/admin/staff", viewData, w)
		return
	}

	slog.Info("staff profile created", "profileID", profile.ID, "email", profile.Email)
	redirect(w, r, "/admin/staff")
}

/*
POST /admin/staff/{id}

Accepts an optional "photo" file, stored as the staff-<id> asset.
*/
func (c AdminController) StaffUpdateAction(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		profile *models.Profile
	)

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)
	id := httphelpers.GetFromRequest[uint](r, "id")

	if profile, err = c.profileService.Get(id); err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Person not found")
			return
		}

		slog.Error("error getting profile", "error", err, "profileID", id)
		httphelpers.TextInternalServerError(w, "Error getting profile")
		return
	}

	profileFromForm(r, profile)

	if err = c.uploadStaffPhoto(r, profile); err != nil {
		slog.Error("error uploading staff photo", "error", err, "profileID", id)
		httphelpers.TextInternalServerError(w, "Error uploading photo")
		return
	}

	if err = c.profileService.Update(profile); err != nil {
		if message := staffErrorMessage(err); message != "" {
			httphelpers.WriteText(w, http.StatusBadRequest, message)
			return
		}

		slog.Error("error updating profile", "error", err, "profileID", id)
		httphelpers.TextInternalServerError(w, "Error saving profile")
		return
	}

	if password := httphelpers.GetFromRequest[string](r, "password"); password != "" {
		if err = c.profileService.SetPassword(profile.ID, password); err != nil {
			if errors.Is(err, services.ErrWeakPassword) {
				httphelpers.WriteText(w, http.StatusBadRequest, err.Error())
				return
			}

			slog.Error("error setting password", "error", err, "profileID", id)
			httphelpers.TextInternalServerError(w, "Error saving password")
			return
		}
	}

	redirect(w, r, "/admin/staff")
}

/*
GET /admin/clients
*/
func (c AdminController) ClientsPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.clientsViewModel(r)
	c.renderer.Render("pages/admin/clients", viewData, w)
}

/*
POST /admin/clients
*/
func (c AdminController) ClientCreateAction(w http.ResponseWriter, r *http.Request) {
	client := &models.Client{
		Name:     httphelpers.GetFromRequest[string](r, "name"),
		Email:    httphelpers.GetFromRequest[string](r, "email"),
		Password: httphelpers.GetFromRequest[string](r, "password"),
	}

	if err := c.clientService.Create(client); err != nil {
		viewData := c.clientsViewModel(r)
		viewData.Form = *client

		switch {
		case errors.Is(err, services.ErrInvalidClient):
			viewData.IsWarning = true
			viewData.Message = "A name and access code are required."
		case errors.Is(err, services.ErrAccessCodeUse):
			viewData.IsWarning = true
			viewData.Message = "That access code is already used by another client."
		default:
			slog.Error("error creating client", "error", err)
			viewData.IsError = true
			viewData.Message = "An unexpected error occurred saving this client."
		}

		c.renderer.Render("pages/admin/clients", viewData, w)
		return
	}

	slog.Info("client created", "clientID", client.ID, "name", client.Name)
	redirect(w, r, "/admin/clients")
}

func (c AdminController) staffViewModel(r *http.Request) viewmodels.AdminStaff {
	var (
		err error
	)

	viewData := viewmodels.AdminStaff{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		Staff:         []models.Profile{},
		PhotoURLs:     map[uint]string{},
		Form:          models.Profile{Role: models.RoleStaff},
	}

	if viewData.Staff, err = c.profileService.ListAll(); err != nil {
		slog.Error("error listing staff", "error", err)
		viewData.IsError = true
		viewData.Message = "Staff could not be loaded."
		return viewData
	}

	for _, profile := range viewData.Staff {
		if profile.PhotoAssetKey == "" {
			continue
		}

		if u, err := c.assetService.URL(profile.PhotoAssetKey); err == nil {
			viewData.PhotoURLs[profile.ID] = u
		}
	}

	return viewData
}

func (c AdminController) clientsViewModel(r *http.Request) viewmodels.AdminClients {
	var (
		err error
	)

	viewData := viewmodels.AdminClients{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		Clients:       []models.Client{},
	}

	if viewData.Clients, err = c.clientService.GetAll(); err != nil {
		slog.Error("error listing clients", "error", err)
		viewData.IsError = true
		viewData.Message = "Clients could not be loaded."
	}

	return viewData
}

func (c AdminController) uploadStaffPhoto(r *http.Request, profile *models.Profile) error {
	file, header, err := r.FormFile("photo")

	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("error reading photo: %w", err)
	}

	defer file.Close()

	key := fmt.Sprintf("%s%d", services.AssetStaffPrefix, profile.ID)

	if _, err = c.assetService.Upload(key, header.Filename, header.Header.Get("Content-Type"), file); err != nil {
		return err
	}

	profile.PhotoAssetKey = key
	return nil
}

func profileFromForm(r *http.Request, profile *models.Profile) {
	profile.Name = httphelpers.GetFromRequest[string](r, "name")
	profile.Email = httphelpers.GetFromRequest[string](r, "email")
	profile.Title = httphelpers.GetFromRequest[string](r, "title")
	profile.Bio = httphelpers.GetFromRequest[string](r, "bio")
	profile.ShowOnSite = isChecked(r, "showOnSite")
	profile.SortOrder = httphelpers.GetFromRequest[int](r, "sortOrder")

	if role := strings.TrimSpace(httphelpers.GetFromRequest[string](r, "role")); role == models.RoleAdmin || role == models.RoleStaff {
		profile.Role = role
	}
}

func staffErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidProfile):
		return "A name and email are required."
	case errors.Is(err, services.ErrWeakPassword):
		return err.Error()
	case errors.Is(err, services.ErrEmailTaken):
		return "That email is already used by another person."
	}

	return ""
}
