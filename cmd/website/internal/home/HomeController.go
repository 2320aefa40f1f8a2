package home

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/cmd/website/internal/viewmodels"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
)

const (
	featuredCount = 6
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	AssetService      services.SimpleAssetServicer
	Builder           galleryview.Builder
	ProfileService    services.ProfileServicer
	Renderer          rendering.TemplateRenderer
	ShootService      services.ShootServicer
	SiteConfigService services.SiteConfigServicer
}

type HomeController struct {
	assetService      services.SimpleAssetServicer
	builder           galleryview.Builder
	profileService    services.ProfileServicer
	renderer          rendering.TemplateRenderer
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		assetService:      config.AssetService,
		builder:           config.Builder,
		profileService:    config.ProfileService,
		renderer:          config.Renderer,
		shootService:      config.ShootService,
		siteConfigService: config.SiteConfigService,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		site     models.SiteConfig
		featured []*models.Shoot
		staff    []models.Profile
	)

	pageName := "pages/home"

	if site, err = c.siteConfigService.GetAll(); err != nil {
		slog.Error("error getting site config", "error", err)
	}

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, site),
		Featured:      []internalmodels.ShootCard{},
		Staff:         []internalmodels.StaffMember{},
	}

	if viewData.HeroURL, err = c.assetService.URL(services.AssetHomeHero); err != nil {
		slog.Debug("no home page hero image", "error", err)
	}

	if featured, err = c.shootService.ListFeatured(featuredCount); err != nil {
		slog.Error("error listing featured shoots", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting photos for this page."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Featured = c.builder.Cards(featured)

	if staff, err = c.profileService.ListVisible(); err != nil {
		slog.Error("error listing staff", "error", err)
	}

	for _, profile := range staff {
		member := internalmodels.StaffMember{
			ID:    profile.ID,
			Name:  profile.Name,
			Title: profile.Title,
			Bio:   profile.Bio,
		}

		if profile.PhotoAssetKey != "" {
			member.PhotoURL, _ = c.assetService.URL(profile.PhotoAssetKey)
		}

		viewData.Staff = append(viewData.Staff, member)
	}

	c.renderer.Render(pageName, viewData, w)
}
