package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
)

/*
GET /admin/settings
*/
func (c AdminController) SettingsPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.settingsViewModel(r)
	c.renderer.Render("pages/admin/settings", viewData, w)
}

/*
POST /admin/settings
*/
func (c AdminController) SettingsAction(w http.ResponseWriter, r *http.Request) {
	values := map[string]string{}

	for _, field := range c.siteConfigService.Fields() {
		values[field.Key] = httphelpers.GetFromRequest[string](r, field.Key)
	}

	err := c.siteConfigService.BulkUpdate(values)
	viewData := c.settingsViewModel(r)

	if err != nil {
		slog.Error("error saving site settings", "error", err)
		viewData.IsError = true
		viewData.Message = "Your settings could not be saved. Please try again."

		c.renderer.Render("pages/admin/settings", viewData, w)
		return
	}

	viewData.Message = "Settings saved."
	c.renderer.Render("pages/admin/settings", viewData, w)
}

/*
POST /admin/assets

Multipart form with "key" and "file".
*/
func (c AdminController) AssetUploadAction(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)

	if err = r.ParseMultipartForm(32 << 20); err != nil {
		slog.Error("error parsing asset upload", "error", err)
		httphelpers.WriteText(w, http.StatusBadRequest, "The upload could not be read. Is the file too large?")
		return
	}

	key := httphelpers.GetFromRequest[string](r, "key")
	file, header, err := r.FormFile("file")

	if err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "Choose a file to upload")
		return
	}

	defer file.Close()

	if _, err = c.assetService.Upload(key, header.Filename, header.Header.Get("Content-Type"), file); err != nil {
		if errors.Is(err, models.ErrInvalidAssetKey) {
			httphelpers.WriteText(w, http.StatusBadRequest, "Invalid asset name")
			return
		}

		slog.Error("error uploading asset", "error", err, "key", key)
		httphelpers.TextInternalServerError(w, "Error uploading asset")
		return
	}

	slog.Info("asset uploaded", "key", key, "fileName", header.Filename)
	redirect(w, r, "/admin/settings")
}

/*
POST /admin/assets/{key}/delete
*/
func (c AdminController) AssetDeleteAction(w http.ResponseWriter, r *http.Request) {
	key := httphelpers.GetFromRequest[string](r, "key")

	if err := c.assetService.Delete(key); err != nil && !errors.Is(err, models.ErrAssetNotFound) {
		slog.Error("error deleting asset", "error", err, "key", key)
		httphelpers.TextInternalServerError(w, "Error deleting asset")
		return
	}

	redirect(w, r, "/admin/settings")
}

func (c AdminController) settingsViewModel(r *http.Request) viewmodels.AdminSettings {
	site := c.site()

	viewData := viewmodels.AdminSettings{
		BaseViewModel: viewmodels.NewBaseViewModel(r, site, rendering.JavascriptInclude{
			Type: "module", Src: "/static/js/pages/admin-settings.js",
		}),
		Groups:     []string{},
		Fields:     map[string][]viewmodels.AdminSettingsField{},
		Assets:     []viewmodels.AdminAsset{},
		AssetNames: services.SiteAssets,
	}

	for _, field := range c.siteConfigService.Fields() {
		if _, ok := viewData.Fields[field.Group]; !ok {
			viewData.Groups = append(viewData.Groups, field.Group)
		}

		viewData.Fields[field.Group] = append(viewData.Fields[field.Group], viewmodels.AdminSettingsField{
			ConfigField: field,
			Value:       site.Get(field.Key),
		})
	}

	assets, err := c.assetService.List()

	if err != nil {
		slog.Error("error listing assets", "error", err)
		viewData.IsError = true
		viewData.Message = "Uploaded assets could not be loaded."
	}

	for _, asset := range assets {
		u, err := c.assetService.URL(asset.Key)

		if err != nil {
			slog.Error("error getting asset URL", "error", err, "key", asset.Key)
		}

		viewData.Assets = append(viewData.Assets, viewmodels.AdminAsset{
			Key:         asset.Key,
			URL:         u,
			FileName:    asset.FileName,
			ContentType: asset.ContentType,
			Size:        asset.Size,
			IsImage:     strings.HasPrefix(asset.ContentType, "image/"),
		})
	}

	return viewData
}
