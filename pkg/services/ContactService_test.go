package services_test

import (
	"fmt"
	"testing"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactServiceSubmit(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{}
	siteConfig := services.NewSiteConfigService(services.SiteConfigServiceConfig{DB: db})

	service := services.NewContactService(services.ContactServiceConfig{
		DB:                db,
		EmailService:      mailer,
		SiteConfigService: siteConfig,
	})

	require.NoError(t, siteConfig.BulkUpdate(map[string]string{services.ConfigContactEmail: "studio@example.com"}))

	message := &models.ContactMessage{
		Name:      " Jordan ",
		Email:     "jordan@example.com",
		EventDate: "2026-09-12",
		Message:   "We are getting married!",
	}

	require.NoError(t, service.Submit(message))
	assert.NotZero(t, message.ID)
	assert.Equal(t, "Jordan", message.Name)

	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "contact", mailer.Sent[0].Kind)
	assert.Equal(t, "studio@example.com", mailer.Sent[0].To)
	assert.Equal(t, "We are getting married!", mailer.Sent[0].Data["message"])

	recent, err := service.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2026-09-12", recent[0].EventDate)
}

func TestContactServiceValidation(t *testing.T) {
	db := newTestDB(t)

	service := services.NewContactService(services.ContactServiceConfig{
		DB:                db,
		EmailService:      &recordingMailer{},
		SiteConfigService: services.NewSiteConfigService(services.SiteConfigServiceConfig{DB: db}),
	})

	tests := []struct {
		name    string
		message models.ContactMessage
	}{
		{name: "missing name", message: models.ContactMessage{Email: "a@example.com", Message: "hi"}},
		{name: "bad email", message: models.ContactMessage{Name: "A", Email: "not-an-email", Message: "hi"}},
		{name: "missing message", message: models.ContactMessage{Name: "A", Email: "a@example.com", Message: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Submit(&tt.message)
			assert.ErrorIs(t, err, models.ErrInvalidContactMessage)
		})
	}

	recent, err := service.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestContactServiceEmailFailureStillSaves(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{Err: fmt.Errorf("resend is down")}

	service := services.NewContactService(services.ContactServiceConfig{
		DB:                db,
		EmailService:      mailer,
		SiteConfigService: services.NewSiteConfigService(services.SiteConfigServiceConfig{DB: db}),
	})

	err := service.Submit(&models.ContactMessage{Name: "Pat", Email: "pat@example.com", Message: "Quote please"})
	require.NoError(t, err)
	assert.Equal(t, 1, mailer.count())

	recent, err := service.Recent(10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
