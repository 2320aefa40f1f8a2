package viewmodels

import "github.com/adampresley/studiosite/pkg/models"

type ClientDownloadStarted struct {
	BaseViewModel

	Client *models.Client
	Shoot  *models.Shoot
}
