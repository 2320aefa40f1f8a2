package viewmodels

import (
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/pkg/models"
)

type CategoryPage struct {
	BaseViewModel

	Category string
	Heading  string
	Intro    string
	Shoots   []internalmodels.ShootCard
}

type PortfolioPage struct {
	BaseViewModel

	Shoot   internalmodels.ShootCard
	Gallery internalmodels.Gallery
}

type ContactPage struct {
	BaseViewModel

	HeroURL string
	Form    models.ContactMessage
	Success bool
}
