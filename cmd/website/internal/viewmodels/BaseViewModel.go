package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
	PageTitle          string
	PageDescription    string
	Site               models.SiteConfig
	Profile            *models.Profile
}

func GetClientFromContext(r *http.Request) *models.Client {
	if result, ok := r.Context().Value("client").(*models.Client); ok {
		return result
	}

	return &models.Client{}
}

func GetProfileFromContext(r *http.Request) *models.Profile {
	if result, ok := r.Context().Value("profile").(*models.Profile); ok {
		return result
	}

	return &models.Profile{}
}

/*
NewBaseViewModel fills in what every page needs. Page title and description
default to the site's SEO settings.
*/
func NewBaseViewModel(r *http.Request, site models.SiteConfig, javascriptIncludes ...rendering.JavascriptInclude) BaseViewModel {
	if javascriptIncludes == nil {
		javascriptIncludes = []rendering.JavascriptInclude{}
	}

	return BaseViewModel{
		IsHtmx:             httphelpers.IsHtmx(r),
		JavascriptIncludes: javascriptIncludes,
		PageTitle:          site.Get(services.ConfigSeoTitle),
		PageDescription:    site.Get(services.ConfigSeoDescription),
		Site:               site,
		Profile:            GetProfileFromContext(r),
	}
}
