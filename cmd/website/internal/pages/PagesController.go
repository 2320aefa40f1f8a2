package pages

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
)

type PagesControllerConfig struct {
	AnalyticsService  services.AnalyticsServicer
	AssetService      services.SimpleAssetServicer
	Builder           galleryview.Builder
	ContactService    services.ContactServicer
	ImageService      services.ImageServicer
	Renderer          rendering.TemplateRenderer
	ShootService      services.ShootServicer
	SiteConfigService services.SiteConfigServicer
}

type PagesController struct {
	analyticsService  services.AnalyticsServicer
	assetService      services.SimpleAssetServicer
	builder           galleryview.Builder
	contactService    services.ContactServicer
	imageService      services.ImageServicer
	renderer          rendering.TemplateRenderer
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
}

func NewPagesController(config PagesControllerConfig) PagesController {
	return PagesController{
		analyticsService:  config.AnalyticsService,
		assetService:      config.AssetService,
		builder:           config.Builder,
		contactService:    config.ContactService,
		imageService:      config.ImageService,
		renderer:          config.Renderer,
		shootService:      config.ShootService,
		siteConfigService: config.SiteConfigService,
	}
}

/*
GET /photography
*/
func (c PagesController) PhotographyPage(w http.ResponseWriter, r *http.Request) {
	c.categoryPage(w, r, models.CategoryPhotography, "Photography", services.ConfigPhotoIntro)
}

/*
GET /videography
*/
func (c PagesController) VideographyPage(w http.ResponseWriter, r *http.Request) {
	c.categoryPage(w, r, models.CategoryVideography, "Videography", services.ConfigVideoIntro)
}

func (c PagesController) categoryPage(w http.ResponseWriter, r *http.Request, category, heading, introKey string) {
	var (
		err    error
		shoots []*models.Shoot
	)

	pageName := "pages/category"
	site := c.site()

	viewData := viewmodels.CategoryPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, site),
		Category:      category,
		Heading:       heading,
		Intro:         site.Get(introKey),
	}

	viewData.PageTitle = heading + " | " + site.Get(services.ConfigSiteName)

	if shoots, err = c.shootService.ListPublic(category); err != nil {
		slog.Error("error listing public shoots", "category", category, "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting our work. Please try again later."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Shoots = c.builder.Cards(shoots)
	c.renderer.Render(pageName, viewData, w)
}

/*
GET /portfolio/{slug}
*/
func (c PagesController) PortfolioPage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		shoot  *models.Shoot
		images []models.Image
	)

	pageName := "pages/portfolio"
	slug := httphelpers.GetFromRequest[string](r, "slug")
	site := c.site()

	viewData := viewmodels.PortfolioPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, site, rendering.JavascriptInclude{
			Type: "module", Src: "/static/js/pages/portfolio.js",
		}),
	}

	if shoot, err = c.shootService.GetShootBySlug(slug); err != nil || !shoot.IsPublic {
		if err != nil && !errors.Is(err, models.ErrShootNotFound) {
			slog.Error("error getting shoot for portfolio", "slug", slug, "error", err)
		}

		w.WriteHeader(http.StatusNotFound)
		viewData.IsWarning = true
		viewData.Message = "We couldn't find that gallery."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if images, err = c.imageService.List(shoot.ID); err != nil {
		slog.Error("error listing images for portfolio", "shootID", shoot.ID, "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem loading this gallery."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.PageTitle = shoot.Title + " | " + site.Get(services.ConfigSiteName)

	if shoot.Description != "" {
		viewData.PageDescription = shoot.Description
	}

	viewData.Shoot = c.builder.Card(shoot)
	viewData.Gallery = c.builder.Gallery(shoot, images, nil)

	if err = c.analyticsService.Record(models.AnalyticsEvent{ShootID: shoot.ID, Event: models.EventGalleryView}); err != nil {
		slog.Error("error recording gallery view", "shootID", shoot.ID, "error", err)
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /contact
*/
func (c PagesController) ContactPage(w http.ResponseWriter, r *http.Request) {
	site := c.site()

	viewData := viewmodels.ContactPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, site),
		HeroURL:       c.contactHero(),
	}

	viewData.PageTitle = "Contact | " + site.Get(services.ConfigSiteName)
	c.renderer.Render("pages/contact", viewData, w)
}

/*
POST /contact
*/
func (c PagesController) ContactAction(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	site := c.site()

	viewData := viewmodels.ContactPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, site),
		HeroURL:       c.contactHero(),
		Form: models.ContactMessage{
			Name:      httphelpers.GetFromRequest[string](r, "name"),
			Email:     httphelpers.GetFromRequest[string](r, "email"),
			Phone:     httphelpers.GetFromRequest[string](r, "phone"),
			EventDate: httphelpers.GetFromRequest[string](r, "eventDate"),
			Message:   httphelpers.GetFromRequest[string](r, "message"),
		},
	}

	viewData.PageTitle = "Contact | " + site.Get(services.ConfigSiteName)

	if err = c.contactService.Submit(&viewData.Form); err != nil {
		if errors.Is(err, models.ErrInvalidContactMessage) {
			viewData.IsWarning = true
			viewData.Message = err.Error()
		} else {
			slog.Error("error saving contact message", "error", err)
			viewData.IsError = true
			viewData.Message = "An unexpected error occurred. Please email us directly."
		}

		c.renderer.Render("pages/contact", viewData, w)
		return
	}

	viewData.Success = true
	viewData.Message = site.Get(services.ConfigContactSuccess)
	viewData.Form = models.ContactMessage{}

	c.renderer.Render("pages/contact", viewData, w)
}

/*
contactHero is optional. A missing asset just means no banner.
*/
func (c PagesController) contactHero() string {
	u, err := c.assetService.URL(services.AssetContactHero)

	if err != nil && !errors.Is(err, models.ErrAssetNotFound) {
		slog.Error("error getting contact hero", "error", err)
	}

	return u
}

func (c PagesController) site() models.SiteConfig {
	site, err := c.siteConfigService.GetAll()

	if err != nil {
		slog.Error("error getting site config", "error", err)
	}

	return site
}
