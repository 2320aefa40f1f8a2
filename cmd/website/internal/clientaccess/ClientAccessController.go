package clientaccess

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
)

type ClientAccessControllerConfig struct {
	AnalyticsService  services.AnalyticsServicer
	Builder           galleryview.Builder
	ClientService     services.ClientServicer
	FavoriteService   services.FavoriteServicer
	ImageService      services.ImageServicer
	Renderer          rendering.TemplateRenderer
	SessionService    sessions.Session[*models.Client]
	ShootService      services.ShootServicer
	SiteConfigService services.SiteConfigServicer
	Store             storage.ObjectStore
	ZipService        services.ZipServicer
}

type ClientAccessController struct {
	analyticsService  services.AnalyticsServicer
	builder           galleryview.Builder
	clientService     services.ClientServicer
	favoriteService   services.FavoriteServicer
	imageService      services.ImageServicer
	renderer          rendering.TemplateRenderer
	sessionService    sessions.Session[*models.Client]
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
	store             storage.ObjectStore
	zipService        services.ZipServicer
}

func NewClientAccessController(config ClientAccessControllerConfig) ClientAccessController {
	return ClientAccessController{
		analyticsService:  config.AnalyticsService,
		builder:           config.Builder,
		clientService:     config.ClientService,
		favoriteService:   config.FavoriteService,
		imageService:      config.ImageService,
		renderer:          config.Renderer,
		sessionService:    config.SessionService,
		shootService:      config.ShootService,
		siteConfigService: config.SiteConfigService,
		store:             config.Store,
		zipService:        config.ZipService,
	}
}

/*
GET /client
*/
func (c ClientAccessController) ShootListPage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		shoots []*models.Shoot
	)

	viewData := viewmodels.ClientShootList{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site(), rendering.JavascriptInclude{
			Type: "module", Src: "/static/js/pages/shoot-list.js",
		}),
		Shoots: []internalmodels.ShootCard{},
		Client: viewmodels.GetClientFromContext(r),
	}

	if shoots, err = c.shootService.ListForClient(viewData.Client.ID); err != nil {
		slog.Error("error getting shoot list", "error", err, "clientID", viewData.Client.ID)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please reach out for assistance."

		c.renderer.Render("pages/clientaccess/shoot-list", viewData, w)
		return
	}

	viewData.Shoots = c.builder.Cards(shoots)
	c.renderer.Render("pages/clientaccess/shoot-list", viewData, w)
}

/*
GET /client/library/{shootid}/download-all
*/
func (c ClientAccessController) DownloadAllImagesInShoot(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		shoot *models.Shoot
	)

	client := viewmodels.GetClientFromContext(r)
	shootID := httphelpers.GetFromRequest[uint](r, "shootid")

	if shoot, err = c.shootService.GetShootForClient(client.ID, shootID); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "shoot not found")
		return
	}

	if _, err = c.zipService.CreateZipAsync(shoot, client); err != nil {
		slog.Error("failed to start zip creation", "error", err, "shootID", shootID)
		httphelpers.TextInternalServerError(w, "Failed to start download preparation")
		return
	}

	c.record(models.AnalyticsEvent{ShootID: shoot.ID, ClientID: client.ID, Event: models.EventDownload})

	viewData := viewmodels.ClientDownloadStarted{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		Shoot:         shoot,
		Client:        client,
	}

	c.renderer.Render("pages/clientaccess/download-started", viewData, w)
}

/*
GET /client/download-image?key=...

Only originals from the signed in client's own shoots can be downloaded.
*/
func (c ClientAccessController) DownloadImage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		shoot  *models.Shoot
		object storage.Object
	)

	client := viewmodels.GetClientFromContext(r)
	key := path.Clean(httphelpers.GetFromRequest[string](r, "key"))
	shootID, folder, _, ok := storage.ParseShootKey(key)

	if !ok || folder != storage.FolderOriginals {
		httphelpers.WriteText(w, http.StatusBadRequest, "Invalid image")
		return
	}

	if shoot, err = c.shootService.GetShootForClient(client.ID, shootID); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "Image not found")
		return
	}

	if object, err = c.store.Get(key); err != nil {
		slog.Error("error getting image object", "error", err, "key", key)
		httphelpers.WriteText(w, http.StatusInternalServerError, "Failed to download image")
		return
	}

	defer object.Body.Close()

	c.record(models.AnalyticsEvent{ShootID: shoot.ID, ClientID: client.ID, Event: models.EventDownload})

	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", path.Base(key)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))

	_, _ = io.Copy(w, object.Body)
}

/*
GET /client/login
*/
func (c ClientAccessController) LoginPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.ClientLogin{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		ClientCode:    "",
	}

	c.renderer.Render("pages/clientaccess/login", viewData, w)
}

/*
POST /client/login
*/
func (c ClientAccessController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		client *models.Client
	)

	pageName := "pages/clientaccess/login"

	viewData := viewmodels.ClientLogin{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		ClientCode:    httphelpers.GetFromRequest[string](r, "password"),
	}

	client, err = c.clientService.GetByPassword(viewData.ClientCode)

	if errors.Is(err, models.ErrClientNotFound) {
		viewData.IsWarning = true
		viewData.Message = "Your password was not correct. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if err != nil {
		slog.Error("error querying for client information", "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please reach out for assistance."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	/*
	 * Setup the session and redirect to the happy place
	 */
	if err = c.sessionService.Set(r, client); err != nil {
		slog.Error("error setting client session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving session", "error", err)
	}

	http.Redirect(w, r, "/client", http.StatusFound)
}

/*
GET /client/logout
*/
func (c ClientAccessController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	http.Redirect(w, r, "/client/login", http.StatusFound)
}

/*
GET /client/{id}
*/
func (c ClientAccessController) ViewShootPage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		shoot  *models.Shoot
		images []models.Image
	)

	pageName := "pages/clientaccess/view-shoot"

	viewData := viewmodels.ClientViewShoot{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site(), rendering.JavascriptInclude{
			Type: "module", Src: "/static/js/pages/view-shoot.js",
		}),
		Client:  viewmodels.GetClientFromContext(r),
		ShootID: httphelpers.GetFromRequest[uint](r, "id"),
	}

	if shoot, err = c.shootService.GetShootForClient(viewData.Client.ID, viewData.ShootID); err != nil {
		slog.Error("an error occurred querying shoot in ViewShootPage", "error", err, "shootID", viewData.ShootID)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please reach out for assistance."

		if errors.Is(err, models.ErrShootNotFound) {
			w.WriteHeader(http.StatusNotFound)
			viewData.Message = "We couldn't find that gallery."
		}

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if images, err = c.imageService.List(shoot.ID); err != nil {
		slog.Error("error listing shoot images", "error", err, "shootID", shoot.ID)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please reach out for assistance."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Shoot = c.builder.Card(shoot)
	viewData.Gallery = c.builder.Gallery(shoot, images, shoot.Favorites)

	c.record(models.AnalyticsEvent{ShootID: shoot.ID, ClientID: viewData.Client.ID, Event: models.EventGalleryView})
	c.renderer.Render(pageName, viewData, w)
}

/*
GET /client/downloads/{filename}
*/
func (c ClientAccessController) DownloadZip(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		shootID uint
		object  storage.Object
	)

	client := viewmodels.GetClientFromContext(r)
	filename := path.Base(httphelpers.GetFromRequest[string](r, "filename"))

	if shootID, err = services.ParseZipFileName(filename); err != nil {
		slog.Error("error parsing shoot ID from filename", "error", err, "filename", filename)
		httphelpers.WriteText(w, http.StatusBadRequest, "Invalid download link")
		return
	}

	if _, err = c.shootService.GetShootForClient(client.ID, shootID); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "Download file not found")
		return
	}

	zipKey := storage.ShootKey(shootID, storage.FolderDownloads, filename)
	slog.Info("serving zip download", "filename", filename, "key", zipKey, "clientID", client.ID)

	if object, err = c.store.Get(zipKey); err != nil {
		slog.Error("error getting zip object", "error", err, "key", zipKey)
		httphelpers.WriteText(w, http.StatusNotFound, "Download file not found")
		return
	}

	defer object.Body.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))

	if _, err = io.Copy(w, object.Body); err != nil {
		slog.Error("error streaming zip file", "error", err, "key", zipKey)
		return
	}

	slog.Info("zip file download completed", "filename", filename, "clientID", client.ID)
}

/*
PUT /client/library/{shootid}/toggle-favorite?image=...
*/
func (c ClientAccessController) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		exists bool
		image  *models.Image
	)

	client := viewmodels.GetClientFromContext(r)
	shootID := httphelpers.GetFromRequest[uint](r, "shootid")
	imageID := httphelpers.GetFromRequest[uint](r, "image")

	if _, err = c.shootService.GetShootForClient(client.ID, shootID); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "shoot not found")
		return
	}

	if image, err = c.imageService.Get(imageID); err != nil || image.ShootID != shootID {
		httphelpers.WriteText(w, http.StatusNotFound, "image not found")
		return
	}

	if exists, err = c.favoriteService.ToggleFavorite(client.ID, shootID, imageID); err != nil {
		slog.Error("error toggling favorite", "error", err, "shootID", shootID, "imageID", imageID)
		httphelpers.TextInternalServerError(w, "Error toggling favorite")
		return
	}

	icon := "icon"

	/*
	 * exists is true when the image was a favorite before this toggle.
	 */
	if !exists {
		icon += " icon-heart"
		c.record(models.AnalyticsEvent{ShootID: shootID, ImageID: imageID, ClientID: client.ID, Event: models.EventFavorite})
	} else {
		icon += " icon-empty-heart"
	}

	markup := fmt.Sprintf("<i class='%s'></i>", icon)
	httphelpers.WriteHtml(w, http.StatusOK, markup)
}

func (c ClientAccessController) record(event models.AnalyticsEvent) {
	if err := c.analyticsService.Record(event); err != nil {
		slog.Error("error recording analytics event", "event", event.Event, "shootID", event.ShootID, "error", err)
	}
}

func (c ClientAccessController) site() models.SiteConfig {
	site, err := c.siteConfigService.GetAll()

	if err != nil {
		slog.Error("error getting site config", "error", err)
	}

	return site
}
