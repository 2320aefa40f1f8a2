package services_test

import (
	"testing"
	"time"

	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageIDs(images []models.Image) []uint {
	result := make([]uint, 0, len(images))

	for _, image := range images {
		result = append(result, image.ID)
	}

	return result
}

func sequences(images []models.Image) []int {
	result := make([]int, 0, len(images))

	for _, image := range images {
		result = append(result, image.Sequence)
	}

	return result
}

func TestImageServiceAdd(t *testing.T) {
	db := newTestDB(t)
	service := services.NewImageService(services.ImageServiceConfig{DB: db})
	shoot := createShoot(t, db, &models.Shoot{Title: "Garden Party"})

	first, err := service.Add(shoot.ID, "one.jpg", 4000, 3000)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sequence)

	second, err := service.Add(shoot.ID, "two.jpg", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)

	_, err = service.Add(shoot.ID, " ", 1, 1)
	assert.Error(t, err)

	unmeasured, err := service.ListUnmeasured(shoot.ID)
	require.NoError(t, err)
	require.Len(t, unmeasured, 1)
	assert.Equal(t, second.ID, unmeasured[0].ID)

	require.NoError(t, service.SetDimensions(second.ID, 2000, 3000))
	assert.ErrorIs(t, service.SetDimensions(second.ID, 0, 3000), services.ErrInvalidDimensions)
	assert.ErrorIs(t, service.SetDimensions(second.ID+50, 10, 10), models.ErrImageNotFound)

	got, err := service.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000, got.Width)
	assert.Equal(t, 3000, got.Height)
}

func TestImageServiceReorder(t *testing.T) {
	db := newTestDB(t)
	service := services.NewImageService(services.ImageServiceConfig{DB: db})
	shoot := createShoot(t, db, &models.Shoot{Title: "Harbor Sunset"})
	added := addImages(t, db, shoot.ID, 4)

	order := []uint{added[3].ID, added[0].ID, added[2].ID, added[1].ID}

	images, err := service.Reorder(shoot.ID, order)
	require.NoError(t, err)
	assert.Equal(t, order, imageIDs(images))
	assert.Equal(t, []int{1, 2, 3, 4}, sequences(images))

	_, err = service.Reorder(shoot.ID, order[:3])
	assert.ErrorIs(t, err, gallery.ErrInvalidOrder)

	_, err = service.Reorder(shoot.ID, []uint{added[0].ID, added[0].ID, added[1].ID, added[2].ID})
	assert.ErrorIs(t, err, gallery.ErrInvalidOrder)

	images, err = service.List(shoot.ID)
	require.NoError(t, err)
	assert.Equal(t, order, imageIDs(images), "failed reorders must not change the saved order")
}

func TestImageServiceMove(t *testing.T) {
	db := newTestDB(t)
	service := services.NewImageService(services.ImageServiceConfig{DB: db})
	shoot := createShoot(t, db, &models.Shoot{Title: "Mountain Hike"})
	added := addImages(t, db, shoot.ID, 3)

	images, err := service.Move(shoot.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{added[1].ID, added[2].ID, added[0].ID}, imageIDs(images))
	assert.Equal(t, []int{1, 2, 3}, sequences(images))

	_, err = service.Move(shoot.ID, 0, 3)
	assert.ErrorIs(t, err, gallery.ErrIndexOutOfRange)
}

func TestImageServiceDelete(t *testing.T) {
	db := newTestDB(t)
	service := services.NewImageService(services.ImageServiceConfig{DB: db})
	shootService := services.NewShootService(services.ShootServiceConfig{DB: db})
	favoriteService := services.NewFavoriteService(services.FavoriteServiceConfig{DB: db})
	clientService := services.NewClientService(services.ClientServiceConfig{DB: db})

	client := &models.Client{Name: "Dana", Password: "dana-code"}
	require.NoError(t, clientService.Create(client))

	shoot := createShoot(t, db, &models.Shoot{Title: "Dana Maternity", ClientID: client.ID})
	added := addImages(t, db, shoot.ID, 3)

	require.NoError(t, shootService.SetCover(shoot.ID, added[1].ID, "25%"))
	_, err := favoriteService.ToggleFavorite(client.ID, shoot.ID, added[1].ID)
	require.NoError(t, err)

	deleted, err := service.Delete(shoot.ID, added[1].ID)
	require.NoError(t, err)
	assert.Equal(t, added[1].FileName, deleted.FileName)

	images, err := service.List(shoot.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{added[0].ID, added[2].ID}, imageIDs(images))
	assert.Equal(t, []int{1, 2}, sequences(images))

	got, err := shootService.GetShoot(shoot.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CoverImageID)
	assert.Empty(t, got.CoverFile)

	favorites, err := favoriteService.ListForShoot(client.ID, shoot.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	other := createShoot(t, db, &models.Shoot{Title: "Someone Else"})
	_, err = service.Delete(other.ID, added[0].ID)
	assert.ErrorIs(t, err, models.ErrImageNotFound)
}

func TestImageChangesTouchShoot(t *testing.T) {
	db := newTestDB(t)
	service := services.NewImageService(services.ImageServiceConfig{DB: db})
	shoots := services.NewShootService(services.ShootServiceConfig{DB: db})
	shoot := createShoot(t, db, &models.Shoot{Title: "Harbor Lights"})

	updatedAt := func() time.Time {
		t.Helper()

		got, err := shoots.GetShoot(shoot.ID)
		require.NoError(t, err)
		return got.UpdatedAt
	}

	before := updatedAt()
	time.Sleep(10 * time.Millisecond)

	first, err := service.Add(shoot.ID, "one.jpg", 3000, 2000)
	require.NoError(t, err)
	afterAdd := updatedAt()
	assert.True(t, afterAdd.After(before), "add")

	second, err := service.Add(shoot.ID, "two.jpg", 3000, 2000)
	require.NoError(t, err)
	afterSecondAdd := updatedAt()
	time.Sleep(10 * time.Millisecond)

	_, err = service.Reorder(shoot.ID, []uint{second.ID, first.ID})
	require.NoError(t, err)
	afterReorder := updatedAt()
	assert.True(t, afterReorder.After(afterSecondAdd), "reorder")
	time.Sleep(10 * time.Millisecond)

	_, err = service.Delete(shoot.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, updatedAt().After(afterReorder), "delete")
}
