package viewmodels

import (
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/pkg/models"
)

type ClientViewShoot struct {
	BaseViewModel

	Client  *models.Client
	ShootID uint
	Shoot   internalmodels.ShootCard
	Gallery internalmodels.Gallery
}
