package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/studiosite/cmd/website/internal/admin"
	"github.com/adampresley/studiosite/cmd/website/internal/api"
	"github.com/adampresley/studiosite/cmd/website/internal/cache"
	"github.com/adampresley/studiosite/cmd/website/internal/clientaccess"
	"github.com/adampresley/studiosite/cmd/website/internal/configuration"
	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	"github.com/adampresley/studiosite/cmd/website/internal/home"
	"github.com/adampresley/studiosite/cmd/website/internal/media"
	"github.com/adampresley/studiosite/cmd/website/internal/pages"
	"github.com/adampresley/studiosite/pkg/database"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "studiosite"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	analyticsService    services.AnalyticsServicer
	assetService        services.SimpleAssetServicer
	cacheCreatorService cache.CacheCreatorService
	clientService       services.ClientServicer
	contactService      services.ContactServicer
	db                  *sqlz.DB
	emailService        services.EmailServicer
	favoriteService     services.FavoriteServicer
	imageService        services.ImageServicer
	profileService      services.ProfileServicer
	renderer            rendering.TemplateRenderer
	adminSession        sessions.Session[*models.Profile]
	clientSession       sessions.Session[*models.Client]
	shootService        services.ShootServicer
	siteConfigService   services.SiteConfigServicer
	store               storage.ObjectStore
	zipService          services.ZipServicer

	/* Controllers */
	adminController        admin.AdminController
	apiController          api.ApiController
	clientAccessController clientaccess.ClientAccessController
	homeController         home.HomeHandlers
	mediaController        media.MediaController
	pagesController        pages.PagesController
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("storageDriver", config.StorageDriver),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup database and sessions
	 */
	if err = database.EnsureDataDir(config.DSN); err != nil {
		panic(err)
	}

	if db, err = database.Connect(config.DSN); err != nil {
		panic(err)
	}

	if err = database.Migrate(db); err != nil {
		panic(err)
	}

	gob.Register(&models.Client{})
	gob.Register(&models.Profile{})

	clientCookieStore := sessions.NewCookieStore(config.CookieSecret)
	clientSession = sessions.NewSessionWrapper[*models.Client](clientCookieStore, "studioclients", "client")

	adminCookieStore := sessions.NewCookieStore(config.AdminCookieSecret)
	adminSession = sessions.NewSessionWrapper[*models.Profile](adminCookieStore, "studioadmins", "profile")

	store = setupStorage()

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	/*
	 * Setup services
	 */
	siteConfigService = services.NewSiteConfigService(services.SiteConfigServiceConfig{
		DB: db,
	})

	emailService = services.NewEmailService(services.EmailServiceConfig{
		ApiKey:    config.EmailApiKey,
		FromName:  config.EmailFromName,
		FromEmail: config.EmailFromAddress,
	})

	shootService = services.NewShootService(services.ShootServiceConfig{
		DB: db,
	})

	imageService = services.NewImageService(services.ImageServiceConfig{
		DB: db,
	})

	clientService = services.NewClientService(services.ClientServiceConfig{
		DB: db,
	})

	favoriteService = services.NewFavoriteService(services.FavoriteServiceConfig{
		DB: db,
	})

	profileService = services.NewProfileService(services.ProfileServiceConfig{
		DB:         db,
		BcryptCost: config.BcryptCost,
	})

	assetService = services.NewSimpleAssetService(services.SimpleAssetServiceConfig{
		DB:    db,
		Store: store,
	})

	analyticsService = services.NewAnalyticsService(services.AnalyticsServiceConfig{
		DB: db,
	})

	contactService = services.NewContactService(services.ContactServiceConfig{
		DB:                db,
		EmailService:      emailService,
		SiteConfigService: siteConfigService,
	})

	zipService = services.NewZipService(services.ZipServiceConfig{
		BaseDownloadURL: config.DownloadBaseURL,
		EmailService:    emailService,
		ExpirationDays:  config.DownloadExpirationDays,
		ImageService:    imageService,
		Store:           store,
	})

	cacheCreatorService = cache.NewCacheCreatorService(cache.CacheCreatorConfig{
		ImageService:    imageService,
		MaxCacheWorkers: config.MaxCacheWorkers,
		Region:          config.AwsRegion,
		ShootService:    shootService,
		ShutdownCtx:     shutdownCtx,
		Store:           store,
	})

	builder := galleryview.NewBuilder(galleryview.BuilderConfig{
		Store: store,
	})

	maxUploadBytes := int64(config.MaxUploadMB) << 20

	/*
	 * Setup controllers
	 */
	adminController = admin.NewAdminController(admin.AdminControllerConfig{
		AnalyticsService:  analyticsService,
		AssetService:      assetService,
		Builder:           builder,
		ClientService:     clientService,
		ContactService:    contactService,
		ImageService:      imageService,
		MaxUploadBytes:    maxUploadBytes,
		ProfileService:    profileService,
		Renderer:          renderer,
		SessionService:    adminSession,
		ShootService:      shootService,
		SiteConfigService: siteConfigService,
		Store:             store,
	})

	apiController = api.NewApiController(api.ApiControllerConfig{
		AnalyticsService:  analyticsService,
		AssetService:      assetService,
		Builder:           builder,
		ImageService:      imageService,
		MaxUploadBytes:    maxUploadBytes,
		ShootService:      shootService,
		SiteConfigService: siteConfigService,
	})

	clientAccessController = clientaccess.NewClientAccessController(clientaccess.ClientAccessControllerConfig{
		AnalyticsService:  analyticsService,
		Builder:           builder,
		ClientService:     clientService,
		FavoriteService:   favoriteService,
		ImageService:      imageService,
		Renderer:          renderer,
		SessionService:    clientSession,
		ShootService:      shootService,
		SiteConfigService: siteConfigService,
		Store:             store,
		ZipService:        zipService,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		AssetService:      assetService,
		Builder:           builder,
		ProfileService:    profileService,
		Renderer:          renderer,
		ShootService:      shootService,
		SiteConfigService: siteConfigService,
	})

	mediaController = media.NewMediaController(media.MediaControllerConfig{
		Store: store,
	})

	pagesController = pages.NewPagesController(pages.PagesControllerConfig{
		AnalyticsService:  analyticsService,
		AssetService:      assetService,
		Builder:           builder,
		ContactService:    contactService,
		ImageService:      imageService,
		Renderer:          renderer,
		ShootService:      shootService,
		SiteConfigService: siteConfigService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, buildRoutes())
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the zip cleanup job
	 */
	zipService.StartCleanupRoutine(24 * time.Hour)
	defer zipService.StopCleanupRoutine()

	/*
	 * Start the cache creator job
	 */
	setupCacheCreator(quit)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func buildRoutes() []mux.Route {
	clientAccessMiddleware := newClientAccessMiddleware(
		clientSession,
		[]string{
			"/static",
			"/client/login",
		},
	)

	adminMiddleware := newAdminMiddleware(adminSession, "/admin/login", false)
	apiMiddleware := newAdminMiddleware(adminSession, "/admin/login", true)

	clientOnly := []mux.MiddlewareFunc{clientAccessMiddleware}
	adminOnly := []mux.MiddlewareFunc{adminMiddleware}
	apiAdminOnly := []mux.MiddlewareFunc{apiMiddleware}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},

		/* Public pages */
		{Path: "GET /{$}", HandlerFunc: homeController.HomePage},
		{Path: "GET /photography", HandlerFunc: pagesController.PhotographyPage},
		{Path: "GET /videography", HandlerFunc: pagesController.VideographyPage},
		{Path: "GET /portfolio/{slug}", HandlerFunc: pagesController.PortfolioPage},
		{Path: "GET /contact", HandlerFunc: pagesController.ContactPage},
		{Path: "POST /contact", HandlerFunc: pagesController.ContactAction},

		/* Client portal */
		{Path: "GET /client/login", HandlerFunc: clientAccessController.LoginPage},
		{Path: "POST /client/login", HandlerFunc: clientAccessController.LoginAction},
		{Path: "GET /client/logout", HandlerFunc: clientAccessController.LogoutAction},
		{Path: "GET /client", HandlerFunc: clientAccessController.ShootListPage, Middlewares: clientOnly},
		{Path: "GET /client/{$}", HandlerFunc: clientAccessController.ShootListPage, Middlewares: clientOnly},
		{Path: "GET /client/{id}", HandlerFunc: clientAccessController.ViewShootPage, Middlewares: clientOnly},
		{Path: "GET /client/download-image", HandlerFunc: clientAccessController.DownloadImage, Middlewares: clientOnly},
		{Path: "GET /client/library/{shootid}/download-all", HandlerFunc: clientAccessController.DownloadAllImagesInShoot, Middlewares: clientOnly},
		{Path: "GET /client/downloads/{filename}", HandlerFunc: clientAccessController.DownloadZip, Middlewares: clientOnly},
		{Path: "PUT /client/library/{shootid}/toggle-favorite", HandlerFunc: clientAccessController.ToggleFavorite, Middlewares: clientOnly},

		/* Admin */
		{Path: "GET /admin/login", HandlerFunc: adminController.LoginPage},
		{Path: "POST /admin/login", HandlerFunc: adminController.LoginAction},
		{Path: "GET /admin/logout", HandlerFunc: adminController.LogoutAction},
		{Path: "GET /admin", HandlerFunc: adminController.DashboardPage, Middlewares: adminOnly},
		{Path: "GET /admin/{$}", HandlerFunc: adminController.DashboardPage, Middlewares: adminOnly},
		{Path: "GET /admin/settings", HandlerFunc: adminController.SettingsPage, Middlewares: adminOnly},
		{Path: "POST /admin/settings", HandlerFunc: adminController.SettingsAction, Middlewares: adminOnly},
		{Path: "POST /admin/assets", HandlerFunc: adminController.AssetUploadAction, Middlewares: adminOnly},
		{Path: "POST /admin/assets/{key}/delete", HandlerFunc: adminController.AssetDeleteAction, Middlewares: adminOnly},
		{Path: "GET /admin/staff", HandlerFunc: adminController.StaffPage, Middlewares: adminOnly},
		{Path: "POST /admin/staff", HandlerFunc: adminController.StaffCreateAction, Middlewares: adminOnly},
		{Path: "POST /admin/staff/{id}", HandlerFunc: adminController.StaffUpdateAction, Middlewares: adminOnly},
		{Path: "GET /admin/clients", HandlerFunc: adminController.ClientsPage, Middlewares: adminOnly},
		{Path: "POST /admin/clients", HandlerFunc: adminController.ClientCreateAction, Middlewares: adminOnly},
		{Path: "GET /admin/shoots", HandlerFunc: adminController.ShootsPage, Middlewares: adminOnly},
		{Path: "POST /admin/shoots", HandlerFunc: adminController.CreateShootAction, Middlewares: adminOnly},
		{Path: "GET /admin/shoots/new", HandlerFunc: adminController.NewShootPage, Middlewares: adminOnly},
		{Path: "GET /admin/shoots/{id}", HandlerFunc: adminController.EditShootPage, Middlewares: adminOnly},
		{Path: "POST /admin/shoots/{id}", HandlerFunc: adminController.UpdateShootAction, Middlewares: adminOnly},
		{Path: "POST /admin/shoots/{id}/delete", HandlerFunc: adminController.DeleteShootAction, Middlewares: adminOnly},
		{Path: "GET /admin/shoots/{id}/gallery", HandlerFunc: adminController.GalleryPage, Middlewares: adminOnly},
		{Path: "POST /admin/shoots/{id}/gallery", HandlerFunc: adminController.GallerySettingsAction, Middlewares: adminOnly},
		{Path: "POST /admin/shoots/{id}/images", HandlerFunc: adminController.UploadImagesAction, Middlewares: adminOnly},
		{Path: "POST /admin/shoots/{id}/images/{imageid}/delete", HandlerFunc: adminController.DeleteImageAction, Middlewares: adminOnly},

		/* JSON API */
		{Path: "GET /api/site-config", HandlerFunc: apiController.GetSiteConfig},
		{Path: "POST /api/analytics", HandlerFunc: apiController.RecordAnalytics},
		{Path: "GET /api/shoots/{id}", HandlerFunc: apiController.GetShoot, Middlewares: apiAdminOnly},
		{Path: "GET /api/shoots/{id}/layout", HandlerFunc: apiController.GetLayout, Middlewares: apiAdminOnly},
		{Path: "PUT /api/shoots/{id}/gallery", HandlerFunc: apiController.UpdateGallerySettings, Middlewares: apiAdminOnly},
		{Path: "PUT /api/shoots/{id}/images/order", HandlerFunc: apiController.ReorderImages, Middlewares: apiAdminOnly},
		{Path: "PUT /api/shoots/{id}/cover", HandlerFunc: apiController.SetCover, Middlewares: apiAdminOnly},
		{Path: "PUT /api/images/{id}/dimensions", HandlerFunc: apiController.SetDimensions, Middlewares: apiAdminOnly},
		{Path: "PUT /api/site-config/bulk", HandlerFunc: apiController.BulkUpdateSiteConfig, Middlewares: apiAdminOnly},
		{Path: "GET /api/simple-assets/{key}", HandlerFunc: apiController.GetAsset, Middlewares: apiAdminOnly},
		{Path: "PUT /api/simple-assets/{key}", HandlerFunc: apiController.UploadAsset, Middlewares: apiAdminOnly},
	}

	/*
	 * S3 hands out its own URLs. Objects kept in memory are served by us.
	 */
	if config.StorageDriver == storageDriverMemory {
		routes = append(routes, mux.Route{Path: "GET /media/{key...}", HandlerFunc: mediaController.ServeObject})
	}

	return routes
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupCacheCreator(quit chan os.Signal) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		running := true

		runner := func() {
			defer func() {
				running = false
			}()

			stats := cacheCreatorService.CreateCache()
			slog.Info("cache creator finished.",
				"thumbnails", stats.Thumbnails,
				"heroBanners", stats.HeroBanners,
				"measured", stats.Measured,
				"failures", stats.Failures,
			)
		}

		runner()

		for {
			select {
			case <-quit:
				return

			case <-ticker.C:
				if running {
					slog.Info("cache creator already running. skipping...")
					continue
				}

				running = true
				runner()
			}
		}
	}()
}
