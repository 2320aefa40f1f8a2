package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
)

const (
	dashboardMessageCount = 10
	defaultMaxUploadBytes = 64 << 20
)

type AdminControllerConfig struct {
	AnalyticsService  services.AnalyticsServicer
	AssetService      services.SimpleAssetServicer
	Builder           galleryview.Builder
	ClientService     services.ClientServicer
	ContactService    services.ContactServicer
	ImageService      services.ImageServicer
	MaxUploadBytes    int64
	ProfileService    services.ProfileServicer
	Renderer          rendering.TemplateRenderer
	SessionService    sessions.Session[*models.Profile]
	ShootService      services.ShootServicer
	SiteConfigService services.SiteConfigServicer
	Store             storage.ObjectStore
}

/*
AdminController serves the studio back-office. Every page except login sits
behind the admin session middleware.
*/
type AdminController struct {
	analyticsService  services.AnalyticsServicer
	assetService      services.SimpleAssetServicer
	builder           galleryview.Builder
	clientService     services.ClientServicer
	contactService    services.ContactServicer
	imageService      services.ImageServicer
	maxUploadBytes    int64
	profileService    services.ProfileServicer
	renderer          rendering.TemplateRenderer
	sessionService    sessions.Session[*models.Profile]
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
	store             storage.ObjectStore
}

func NewAdminController(config AdminControllerConfig) AdminController {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = defaultMaxUploadBytes
	}

	return AdminController{
		analyticsService:  config.AnalyticsService,
		assetService:      config.AssetService,
		builder:           config.Builder,
		clientService:     config.ClientService,
		contactService:    config.ContactService,
		imageService:      config.ImageService,
		maxUploadBytes:    config.MaxUploadBytes,
		profileService:    config.ProfileService,
		renderer:          config.Renderer,
		sessionService:    config.SessionService,
		shootService:      config.ShootService,
		siteConfigService: config.SiteConfigService,
		store:             config.Store,
	}
}

/*
GET /admin/login
*/
func (c AdminController) LoginPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.AdminLogin{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
	}

	c.renderer.Render("pages/admin/login", viewData, w)
}

/*
POST /admin/login
*/
func (c AdminController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		profile *models.Profile
	)

	pageName := "pages/admin/login"

	viewData := viewmodels.AdminLogin{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		Email:         httphelpers.GetFromRequest[string](r, "email"),
	}

	profile, err = c.profileService.Authenticate(viewData.Email, httphelpers.GetFromRequest[string](r, "password"))

	if errors.Is(err, models.ErrInvalidCredentials) {
		viewData.IsWarning = true
		viewData.Message = "Your email or password was not correct. Please try again."

		w.WriteHeader(http.StatusUnauthorized)
		c.renderer.Render(pageName, viewData, w)
		return
	}

	if err != nil {
		slog.Error("error authenticating profile", "error", err, "email", viewData.Email)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	/*
	 * The session cookie only needs to know who signed in.
	 */
	profile.PasswordHash = ""

	if err = c.sessionService.Set(r, profile); err != nil {
		slog.Error("error setting admin session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving admin session", "error", err)
	}

	slog.Info("admin signed in", "profileID", profile.ID, "email", profile.Email)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

/*
GET /admin/logout
*/
func (c AdminController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

/*
GET /admin
*/
func (c AdminController) DashboardPage(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	viewData := viewmodels.AdminDashboard{
		BaseViewModel: viewmodels.NewBaseViewModel(r, c.site()),
		Analytics:     []models.ShootAnalytics{},
		Messages:      []models.ContactMessage{},
	}

	if viewData.Analytics, err = c.analyticsService.SummaryByShoot(); err != nil {
		slog.Error("error getting analytics summary", "error", err)
		viewData.IsError = true
		viewData.Message = "Analytics could not be loaded."
	}

	if viewData.Messages, err = c.contactService.Recent(dashboardMessageCount); err != nil {
		slog.Error("error getting recent contact messages", "error", err)
		viewData.IsError = true
		viewData.Message = "Contact messages could not be loaded."
	}

	c.renderer.Render("pages/admin/dashboard", viewData, w)
}

func (c AdminController) site() models.SiteConfig {
	site, err := c.siteConfigService.GetAll()

	if err != nil {
		slog.Error("error getting site config", "error", err)
	}

	return site
}

/*
redirect sends the browser on after a form post. htmx requests get an
HX-Redirect header instead so the whole page changes.
*/
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if httphelpers.IsHtmx(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, to, http.StatusSeeOther)
}

func isChecked(r *http.Request, name string) bool {
	value := httphelpers.GetFromRequest[string](r, name)
	return value == "on" || value == "true" || value == "1"
}
