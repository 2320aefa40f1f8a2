package services_test

import (
	"testing"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfigServiceDefaults(t *testing.T) {
	service := services.NewSiteConfigService(services.SiteConfigServiceConfig{DB: newTestDB(t)})

	all, err := service.GetAll()
	require.NoError(t, err)

	for _, field := range service.Fields() {
		assert.Contains(t, all, field.Key)
		assert.Equal(t, field.Default, all[field.Key])
	}

	_, err = service.Get("not.a.key")
	assert.ErrorIs(t, err, models.ErrUnknownConfigKey)
}

func TestSiteConfigServiceBulkUpdate(t *testing.T) {
	service := services.NewSiteConfigService(services.SiteConfigServiceConfig{DB: newTestDB(t)})

	err := service.BulkUpdate(map[string]string{
		services.ConfigSiteName:     "Golden Hour Studio",
		services.ConfigContactEmail: "  hello@goldenhour.test ",
	})
	require.NoError(t, err)

	name, err := service.Get(services.ConfigSiteName)
	require.NoError(t, err)
	assert.Equal(t, "Golden Hour Studio", name)

	email, err := service.Get(services.ConfigContactEmail)
	require.NoError(t, err)
	assert.Equal(t, "hello@goldenhour.test", email)

	require.NoError(t, service.BulkUpdate(map[string]string{services.ConfigSiteName: "Second Name"}))

	name, err = service.Get(services.ConfigSiteName)
	require.NoError(t, err)
	assert.Equal(t, "Second Name", name)

	err = service.BulkUpdate(map[string]string{
		services.ConfigSiteTagline: "Should not save",
		"site.unknown":             "nope",
	})
	assert.ErrorIs(t, err, models.ErrUnknownConfigKey)

	all, err := service.GetAll()
	require.NoError(t, err)
	assert.NotEqual(t, "Should not save", all.Get(services.ConfigSiteTagline))
}
