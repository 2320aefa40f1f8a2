package viewmodels

import internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"

type HomePage struct {
	BaseViewModel

	HeroURL  string
	Featured []internalmodels.ShootCard
	Staff    []internalmodels.StaffMember
}
