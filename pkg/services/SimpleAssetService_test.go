package services_test

import (
	"io"
	"strings"
	"testing"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleAssetServiceUpload(t *testing.T) {
	store := storage.NewMemoryStore("http://localhost/media")
	service := services.NewSimpleAssetService(services.SimpleAssetServiceConfig{
		DB:    newTestDB(t),
		Store: store,
	})

	first, err := service.Upload("home-hero", "Hero.JPG", "image/jpeg", strings.NewReader("first image"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("first image")), first.Size)
	assert.True(t, strings.HasPrefix(first.ObjectKey, "assets/home-hero/"))
	assert.True(t, strings.HasSuffix(first.ObjectKey, ".jpg"))

	got, err := service.Get("home-hero")
	require.NoError(t, err)
	assert.Equal(t, first.ObjectKey, got.ObjectKey)
	assert.Equal(t, "Hero.JPG", got.FileName)

	url, err := service.URL("home-hero")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/media/"+first.ObjectKey, url)

	second, err := service.Upload("home-hero", "hero2.png", "image/png", strings.NewReader("second"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)

	_, err = store.Get(first.ObjectKey)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound, "replaced object should be removed")

	obj, err := store.Get(second.ObjectKey)
	require.NoError(t, err)
	body, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "second", string(body))

	assets, err := service.List()
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}

func TestSimpleAssetServiceKeys(t *testing.T) {
	store := storage.NewMemoryStore("http://localhost/media")
	service := services.NewSimpleAssetService(services.SimpleAssetServiceConfig{
		DB:    newTestDB(t),
		Store: store,
	})

	tests := []struct {
		key   string
		valid bool
	}{
		{key: "logo", valid: true},
		{key: "home-hero-2", valid: true},
		{key: "Logo", valid: false},
		{key: "../etc", valid: false},
		{key: "", valid: false},
		{key: strings.Repeat("a", 65), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.valid, services.IsValidAssetKey(tt.key))
		})
	}

	_, err := service.Upload("Bad Key", "x.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, models.ErrInvalidAssetKey)

	_, err = service.Get("logo")
	assert.ErrorIs(t, err, models.ErrAssetNotFound)
}

func TestSimpleAssetServiceDelete(t *testing.T) {
	store := storage.NewMemoryStore("http://localhost/media")
	service := services.NewSimpleAssetService(services.SimpleAssetServiceConfig{
		DB:    newTestDB(t),
		Store: store,
	})

	asset, err := service.Upload("logo", "logo.svg", "image/svg+xml", strings.NewReader("<svg/>"))
	require.NoError(t, err)

	require.NoError(t, service.Delete("logo"))

	_, err = store.Get(asset.ObjectKey)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	assert.ErrorIs(t, service.Delete("logo"), models.ErrAssetNotFound)
}
