package viewmodels

import (
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
)

type AdminLogin struct {
	BaseViewModel

	Email string
}

type AdminDashboard struct {
	BaseViewModel

	Analytics []models.ShootAnalytics
	Messages  []models.ContactMessage
}

type AdminSettingsField struct {
	services.ConfigField

	Value string
}

type AdminSettings struct {
	BaseViewModel

	Groups     []string
	Fields     map[string][]AdminSettingsField
	Assets     []AdminAsset
	AssetNames []string
}

type AdminAsset struct {
	Key         string
	URL         string
	FileName    string
	ContentType string
	Size        int64
	IsImage     bool
}

type AdminStaff struct {
	BaseViewModel

	Staff     []models.Profile
	PhotoURLs map[uint]string
	Form      models.Profile
}

type AdminClients struct {
	BaseViewModel

	Clients []models.Client
	Form    models.Client
}

type AdminShoots struct {
	BaseViewModel

	Shoots []internalmodels.ShootCard
}

type AdminShootEdit struct {
	BaseViewModel

	IsNew   bool
	Shoot   models.Shoot
	Clients []models.Client
}

type AdminGallery struct {
	BaseViewModel

	Shoot   internalmodels.ShootCard
	Gallery internalmodels.Gallery
	Layouts []string
}
