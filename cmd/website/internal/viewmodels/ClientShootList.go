package viewmodels

import (
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/pkg/models"
)

type ClientShootList struct {
	BaseViewModel

	Client *models.Client
	Shoots []internalmodels.ShootCard
}
