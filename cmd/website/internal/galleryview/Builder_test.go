package galleryview_test

import (
	"testing"
	"time"

	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost/media"

func newBuilder() galleryview.Builder {
	return galleryview.NewBuilder(galleryview.BuilderConfig{
		Store: storage.NewMemoryStore(baseURL),
	})
}

func newShoot() *models.Shoot {
	shoot := &models.Shoot{
		Title:       "Beach Day",
		Slug:        "beach-day",
		Category:    models.CategoryPhotography,
		Layout:      string(gallery.LayoutAutomatic),
		Spacing:     8,
		BorderColor: "#ffffff",
		Columns:     3,
	}

	shoot.ID = 7
	return shoot
}

func image(id uint, name string, width, height, sequence int) models.Image {
	return models.Image{ID: id, ShootID: 7, FileName: name, Width: width, Height: height, Sequence: sequence}
}

func TestGalleryUniformImagesBecomeGrid(t *testing.T) {
	images := []models.Image{
		image(1, "a.jpg", 3000, 2000, 1),
		image(2, "b.jpg", 3000, 2000, 2),
		image(3, "c.jpg", 3000, 2000, 3),
		image(4, "d.jpg", 3000, 2000, 4),
	}

	favorites := []models.Favorite{{ImageID: 2}}

	actual := newBuilder().Gallery(newShoot(), images, favorites)

	assert.Equal(t, string(gallery.LayoutGrid), actual.Layout)
	assert.True(t, actual.IsGrid())
	assert.Equal(t, gallery.Ratio3x2, actual.Ratio)
	require.Len(t, actual.Images, 4)
	require.Len(t, actual.ImageRows, 2)
	assert.Len(t, actual.ImageRows[0], 3)
	assert.Len(t, actual.ImageRows[1], 1)

	assert.True(t, actual.Images[0].IsCover)
	assert.False(t, actual.Images[1].IsCover)
	assert.Equal(t, baseURL+"/shoots/7/hero-banner/a.jpg", actual.HeroURL)

	assert.False(t, actual.Images[0].IsFavorite)
	assert.True(t, actual.Images[1].IsFavorite)

	assert.Equal(t, baseURL+"/shoots/7/thumbnails/b.jpg", actual.Images[1].ThumbnailURL)
	assert.Equal(t, "shoots/7/originals/b.jpg", actual.Images[1].OriginalKey)
	assert.Equal(t, uint(7), actual.Images[1].ShootID)
}

func TestGalleryMixedImagesBecomeMasonry(t *testing.T) {
	shoot := newShoot()
	shoot.CoverImageID = 3

	images := []models.Image{
		image(4, "d.jpg", 2000, 2000, 4),
		image(1, "a.jpg", 2000, 3000, 1),
		image(2, "b.jpg", 3000, 2000, 2),
		image(3, "c.jpg", 3000, 2000, 3),
	}

	actual := newBuilder().Gallery(shoot, images, nil)

	assert.Equal(t, string(gallery.LayoutMasonry), actual.Layout)
	require.Len(t, actual.ImageColumns, 3)
	assert.Len(t, actual.ImageColumns[0], 1)
	assert.Len(t, actual.ImageColumns[1], 2)
	assert.Len(t, actual.ImageColumns[2], 1)
	assert.Equal(t, "d.jpg", actual.ImageColumns[1][1].FileName)

	assert.Equal(t, "a.jpg", actual.Images[0].FileName)
	assert.True(t, actual.Images[2].IsCover)
	assert.Equal(t, baseURL+"/shoots/7/hero-banner/c.jpg", actual.HeroURL)
}

func TestGalleryEmpty(t *testing.T) {
	actual := newBuilder().Gallery(newShoot(), nil, nil)

	assert.Empty(t, actual.Images)
	assert.Empty(t, actual.HeroURL)
	assert.Equal(t, string(gallery.LayoutMasonry), actual.Layout)
}

func TestCard(t *testing.T) {
	shoot := newShoot()
	shoot.CoverFile = "a.jpg"
	shoot.ClientID = 3
	shoot.Client = models.Client{Name: "The Smiths"}
	shoot.ShootDate = time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)

	actual := newBuilder().Card(shoot)

	assert.Equal(t, baseURL+"/shoots/7/thumbnails/a.jpg", actual.CoverURL)
	assert.Equal(t, "Jun 14, 2026", actual.ShootDate)
	assert.Equal(t, uint(3), actual.Client.ID)
	assert.Equal(t, "The Smiths", actual.Client.Name)
}

func TestCardWithoutCover(t *testing.T) {
	actual := newBuilder().Card(newShoot())
	assert.Empty(t, actual.CoverURL)
}
