package admin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/imaging"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/storage"
)

const dateFormat = "2006-01-02"

/*
GET /admin/shoots
*/
func (c AdminController) ShootsPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.AdminShoots{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
	}

	shoots, err := c.shootService.ListAll()

	if err != nil {
		slog.Error("error listing shoots", "error", err)
		viewData.IsError = true
		viewData.Message = "Shoots could not be loaded."
	}

	viewData.Shoots = c.builder.Cards(shoots)
	c.renderer.Render("pages/admin/shoots", viewData, w)
}

/*
GET /admin/shoots/new
*/
func (c AdminController) NewShootPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.shootEditViewModel(r, &models.Shoot{
		Category:  models.CategoryPhotography,
		ShootDate: time.Now(),
	}, true)

	c.renderer.Render("pages/admin/shoot-edit", viewData, w)
}

/*
POST /admin/shoots
*/
func (c AdminController) CreateShootAction(w http.ResponseWriter, r *http.Request) {
	shoot := &models.Shoot{}
	shootFromForm(r, shoot)

	if err := c.shootService.Create(shoot); err != nil {
		c.renderShootError(w, r, shoot, true, err)
		return
	}

	slog.Info("shoot created", "shootID", shoot.ID, "slug", shoot.Slug)
	redirect(w, r, fmt.Sprintf("/admin/shoots/%d/gallery", shoot.ID))
}

/*
GET /admin/shoots/{id}
*/
func (c AdminController) EditShootPage(w http.ResponseWriter, r *http.Request) {
	shoot, ok := c.getShoot(w, r)

	if !ok {
		return
	}

	viewData := c.shootEditViewModel(r, shoot, false)
	c.renderer.Render("pages/admin/shoot-edit", viewData, w)
}

/*
POST /admin/shoots/{id}
*/
func (c AdminController) UpdateShootAction(w http.ResponseWriter, r *http.Request) {
	shoot, ok := c.getShoot(w, r)

	if !ok {
		return
	}

	shootFromForm(r, shoot)

	if err := c.shootService.Update(shoot); err != nil {
		c.renderShootError(w, r, shoot, false, err)
		return
	}

	redirect(w, r, "/admin/shoots")
}

/*
POST /admin/shoots/{id}/delete
*/
func (c AdminController) DeleteShootAction(w http.ResponseWriter, r *http.Request) {
	id := httphelpers.GetFromRequest[uint](r, "id")

	if err := c.shootService.Delete(id); err != nil {
		if errors.Is(err, models.ErrShootNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Shoot not found")
			return
		}

		slog.Error("error deleting shoot", "error", err, "shootID", id)
		httphelpers.TextInternalServerError(w, "Error deleting shoot")
		return
	}

	slog.Info("shoot deleted", "shootID", id)
	redirect(w, r, "/admin/shoots")
}

/*
GET /admin/shoots/{id}/gallery
*/
func (c AdminController) GalleryPage(w http.ResponseWriter, r *http.Request) {
	shoot, ok := c.getShoot(w, r)

	if !ok {
		return
	}

	viewData := c.galleryViewModel(r, shoot)
	c.renderer.Render("pages/admin/gallery", viewData, w)
}

/*
POST /admin/shoots/{id}/gallery

Form fallback for the customizer. The page's script uses the JSON API.
*/
func (c AdminController) GallerySettingsAction(w http.ResponseWriter, r *http.Request) {
	shoot, ok := c.getShoot(w, r)

	if !ok {
		return
	}

	settings := gallery.Settings{
		Layout:       gallery.Layout(httphelpers.GetFromRequest[string](r, "layout")),
		Spacing:      httphelpers.GetFromRequest[int](r, "spacing"),
		BorderRadius: httphelpers.GetFromRequest[int](r, "borderRadius"),
		BorderWidth:  httphelpers.GetFromRequest[int](r, "borderWidth"),
		BorderColor:  strings.ToLower(strings.TrimSpace(httphelpers.GetFromRequest[string](r, "borderColor"))),
		Columns:      httphelpers.GetFromRequest[int](r, "columns"),
	}

	if err := c.shootService.UpdateGallerySettings(shoot.ID, settings); err != nil {
		viewData := c.galleryViewModel(r, shoot)
		viewData.IsWarning = true
		viewData.Message = err.Error()

		if !isValidationError(err) {
			slog.Error("error saving gallery settings", "error", err, "shootID", shoot.ID)
			viewData.IsWarning = false
			viewData.IsError = true
			viewData.Message = "An unexpected error occurred saving the gallery."
		}

		w.WriteHeader(http.StatusBadRequest)
		c.renderer.Render("pages/admin/gallery", viewData, w)
		return
	}

	redirect(w, r, fmt.Sprintf("/admin/shoots/%d/gallery", shoot.ID))
}

/*
POST /admin/shoots/{id}/images

Multipart form with one or more "images" files. Each one is measured, stored
as an original with a thumbnail, and appended to the end of the gallery.
*/
func (c AdminController) UploadImagesAction(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		existing []models.Image
	)

	shoot, ok := c.getShoot(w, r)

	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)

	if err = r.ParseMultipartForm(32 << 20); err != nil {
		slog.Error("error parsing image upload", "error", err, "shootID", shoot.ID)
		httphelpers.WriteText(w, http.StatusBadRequest, "The upload could not be read. Are the files too large?")
		return
	}

	files := r.MultipartForm.File["images"]

	if len(files) == 0 {
		httphelpers.WriteText(w, http.StatusBadRequest, "Choose at least one image to upload")
		return
	}

	if existing, err = c.imageService.List(shoot.ID); err != nil {
		slog.Error("error listing images before upload", "error", err, "shootID", shoot.ID)
		httphelpers.TextInternalServerError(w, "Error uploading images")
		return
	}

	names := map[string]bool{}

	for _, image := range existing {
		names[strings.ToLower(image.FileName)] = true
	}

	failed := []string{}

	for _, header := range files {
		file, err := header.Open()

		if err != nil {
			slog.Error("error opening uploaded file", "error", err, "fileName", header.Filename)
			failed = append(failed, header.Filename)
			continue
		}

		data, err := io.ReadAll(file)
		file.Close()

		if err != nil {
			slog.Error("error reading uploaded file", "error", err, "fileName", header.Filename)
			failed = append(failed, header.Filename)
			continue
		}

		fileName := uniqueFileName(header.Filename, names)

		if _, err = c.storeImage(shoot.ID, fileName, data); err != nil {
			slog.Error("error storing uploaded image", "error", err, "shootID", shoot.ID, "fileName", fileName)
			failed = append(failed, header.Filename)
			continue
		}

		names[strings.ToLower(fileName)] = true
	}

	if len(failed) > 0 {
		httphelpers.WriteText(w, http.StatusBadRequest, "These files could not be added: "+strings.Join(failed, ", "))
		return
	}

	slog.Info("images uploaded", "shootID", shoot.ID, "count", len(files))
	redirect(w, r, fmt.Sprintf("/admin/shoots/%d/gallery", shoot.ID))
}

/*
POST /admin/shoots/{id}/images/{imageid}/delete
*/
func (c AdminController) DeleteImageAction(w http.ResponseWriter, r *http.Request) {
	shootID := httphelpers.GetFromRequest[uint](r, "id")
	imageID := httphelpers.GetFromRequest[uint](r, "imageid")

	image, err := c.imageService.Delete(shootID, imageID)

	if err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Image not found")
			return
		}

		slog.Error("error deleting image", "error", err, "shootID", shootID, "imageID", imageID)
		httphelpers.TextInternalServerError(w, "Error deleting image")
		return
	}

	keys := []string{
		storage.ShootKey(shootID, storage.FolderOriginals, image.FileName),
		storage.ShootKey(shootID, storage.FolderThumbnails, image.FileName),
		storage.ShootKey(shootID, storage.FolderHeroBanner, image.FileName),
	}

	if err = c.store.Delete(keys...); err != nil {
		slog.Error("error removing image files", "error", err, "shootID", shootID, "fileName", image.FileName)
	}

	redirect(w, r, fmt.Sprintf("/admin/shoots/%d/gallery", shootID))
}

/*
storeImage saves the original and its thumbnail, then adds the image row.
Images whose format can't be decoded are rejected before anything is stored.
*/
func (c AdminController) storeImage(shootID uint, fileName string, data []byte) (*models.Image, error) {
	width, height, err := imaging.Dimensions(bytes.NewReader(data))

	if err != nil {
		return nil, err
	}

	thumbnail, err := imaging.ResizeToJPEG(bytes.NewReader(data), imaging.ThumbnailSize)

	if err != nil {
		return nil, err
	}

	originalKey := storage.ShootKey(shootID, storage.FolderOriginals, fileName)
	thumbnailKey := storage.ShootKey(shootID, storage.FolderThumbnails, fileName)

	if err = c.store.Put(originalKey, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	if err = c.store.Put(thumbnailKey, bytes.NewReader(thumbnail)); err != nil {
		c.removeObjects(originalKey)
		return nil, err
	}

	image, err := c.imageService.Add(shootID, fileName, width, height)

	if err != nil {
		c.removeObjects(originalKey, thumbnailKey)
		return nil, err
	}

	return image, nil
}

/*
removeObjects deletes objects written for an image that never made it into
the database.
*/
func (c AdminController) removeObjects(keys ...string) {
	if err := c.store.Delete(keys...); err != nil {
		slog.Error("error removing objects for a failed upload", "error", err, "keys", keys)
	}
}

func (c AdminController) getShoot(w http.ResponseWriter, r *http.Request) (*models.Shoot, bool) {
	id := httphelpers.GetFromRequest[uint](r, "id")
	shoot, err := c.shootService.GetShoot(id)

	if err != nil {
		if errors.Is(err, models.ErrShootNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Shoot not found")
			return nil, false
		}

		slog.Error("error getting shoot", "error", err, "shootID", id)
		httphelpers.TextInternalServerError(w, "Error getting shoot")
		return nil, false
	}

	return shoot, true
}

func (c AdminController) shootEditViewModel(r *http.Request, shoot *models.Shoot, isNew bool) viewmodels.AdminShootEdit {
	viewData := viewmodels.AdminShootEdit{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		IsNew:         isNew,
		Shoot:         *shoot,
		Clients:       []models.Client{},
	}

	clients, err := c.clientService.GetAll()

	if err != nil {
		slog.Error("error listing clients", "error", err)
		viewData.IsError = true
		viewData.Message = "Clients could not be loaded."
		return viewData
	}

	viewData.Clients = clients
	return viewData
}

func (c AdminController) renderShootError(w http.ResponseWriter, r *http.Request, shoot *models.Shoot, isNew bool, err error) {
	viewData := c.shootEditViewModel(r, shoot, isNew)

	switch {
	case errors.Is(err, models.ErrInvalidShoot), errors.Is(err, models.ErrSlugTaken):
		viewData.IsWarning = true
		viewData.Message = err.Error()
		w.WriteHeader(http.StatusBadRequest)
	default:
		slog.Error("error saving shoot", "error", err, "shootID", shoot.ID)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred saving this shoot."
		w.WriteHeader(http.StatusInternalServerError)
	}

	c.renderer.Render("pages/admin/shoot-edit", viewData, w)
}

func (c AdminController) galleryViewModel(r *http.Request, shoot *models.Shoot) viewmodels.AdminGallery {
	viewData := viewmodels.AdminGallery{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site(), rendering.JavascriptInclude{
			Type: "module", Src: "/static/js/pages/gallery-customizer.js",
		}),
		Shoot: c.builder.Card(shoot),
		Layouts: []string{
			string(gallery.LayoutAutomatic),
			string(gallery.LayoutMasonry),
			string(gallery.LayoutGrid),
		},
	}

	images, err := c.imageService.List(shoot.ID)

	if err != nil {
		slog.Error("error listing images", "error", err, "shootID", shoot.ID)
		viewData.IsError = true
		viewData.Message = "Images could not be loaded."
	}

	viewData.Gallery = c.builder.Gallery(shoot, images, nil)
	return viewData
}

func shootFromForm(r *http.Request, shoot *models.Shoot) {
	shoot.Title = httphelpers.GetFromRequest[string](r, "title")
	shoot.Slug = httphelpers.GetFromRequest[string](r, "slug")
	shoot.Description = httphelpers.GetFromRequest[string](r, "description")
	shoot.Category = httphelpers.GetFromRequest[string](r, "category")
	shoot.Location = httphelpers.GetFromRequest[string](r, "location")
	shoot.VideoURL = strings.TrimSpace(httphelpers.GetFromRequest[string](r, "videoUrl"))
	shoot.ClientID = httphelpers.GetFromRequest[uint](r, "clientId")
	shoot.IsPublic = isChecked(r, "isPublic")
	shoot.IsFeatured = isChecked(r, "isFeatured")

	if shootDate, err := time.Parse(dateFormat, httphelpers.GetFromRequest[string](r, "shootDate")); err == nil {
		shoot.ShootDate = shootDate
	}
}

/*
uniqueFileName keeps uploaded names from overwriting each other by adding
-2, -3, and so on before the extension.
*/
func uniqueFileName(fileName string, taken map[string]bool) string {
	fileName = path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	fileName = strings.ReplaceAll(fileName, " ", "-")

	if fileName == "." || fileName == "/" || fileName == "" {
		fileName = "image.jpg"
	}

	if !taken[strings.ToLower(fileName)] {
		return fileName
	}

	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)

		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		gallery.ErrInvalidLayout,
		gallery.ErrSpacingRange,
		gallery.ErrBorderRadiusRange,
		gallery.ErrBorderWidthRange,
		gallery.ErrInvalidBorderColor,
		gallery.ErrColumnsRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
