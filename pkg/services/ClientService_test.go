package services_test

import (
	"testing"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService(t *testing.T) {
	db := newTestDB(t)
	service := services.NewClientService(services.ClientServiceConfig{DB: db})

	client := &models.Client{Name: " Morgan ", Email: "morgan@example.com", Password: "sunflower"}
	require.NoError(t, service.Create(client))
	assert.NotZero(t, client.ID)
	assert.Equal(t, "Morgan", client.Name)

	got, err := service.GetByPassword("sunflower")
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)

	_, err = service.GetByPassword("wrong")
	assert.ErrorIs(t, err, models.ErrClientNotFound)

	err = service.Create(&models.Client{Name: "Other", Password: "sunflower"})
	assert.ErrorIs(t, err, services.ErrAccessCodeUse)

	err = service.Create(&models.Client{Name: "No Code"})
	assert.ErrorIs(t, err, services.ErrInvalidClient)

	require.NoError(t, service.Create(&models.Client{Name: "Avery", Password: "tulip"}))

	all, err := service.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Avery", all[0].Name)

	byID, err := service.Get(client.ID)
	require.NoError(t, err)
	assert.Equal(t, "morgan@example.com", byID.Email)

	_, err = service.Get(999)
	assert.ErrorIs(t, err, models.ErrClientNotFound)
}
