package services_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipFileNames(t *testing.T) {
	shoot := &models.Shoot{BaseModel: models.BaseModel{ID: 42}, Slug: "smith-wedding"}
	name := services.ZipFileName(shoot)
	assert.Equal(t, "smith-wedding-42.zip", name)

	id, err := services.ParseZipFileName(name)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	id, err = services.ParseZipFileName("../../etc/passwd-7.zip")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	for _, bad := range []string{"nothing.txt", "wedding.zip", "wedding-0.zip"} {
		_, err = services.ParseZipFileName(bad)
		assert.ErrorIs(t, err, services.ErrInvalidZipName, bad)
	}
}

func TestZipServiceCreatesArchive(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewMemoryStore("http://localhost/media")
	mailer := &recordingMailer{}

	service := services.NewZipService(services.ZipServiceConfig{
		BaseDownloadURL: "https://studio.test",
		EmailService:    mailer,
		ImageService:    services.NewImageService(services.ImageServiceConfig{DB: db}),
		Store:           store,
	})

	shoot := createShoot(t, db, &models.Shoot{Title: "Family Reunion"})
	images := addImages(t, db, shoot.ID, 2)

	for _, image := range images {
		key := storage.ShootKey(shoot.ID, storage.FolderOriginals, image.FileName)
		require.NoError(t, store.Put(key, strings.NewReader("pixels of "+image.FileName)))
	}

	client := &models.Client{Name: "Lee", Email: "lee@example.com"}

	name, err := service.CreateZipAsync(shoot, client)
	require.NoError(t, err)
	assert.Equal(t, services.ZipFileName(shoot), name)

	require.Eventually(t, func() bool { return mailer.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "lee@example.com", mailer.Sent[0].To)
	assert.Equal(t, "https://studio.test/client/downloads/"+name, mailer.Sent[0].Data["downloadURL"])

	obj, err := store.Get(storage.ShootKey(shoot.ID, storage.FolderDownloads, name))
	require.NoError(t, err)

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	assert.Equal(t, images[0].FileName, reader.File[0].Name)

	_, err = service.CreateZipAsync(shoot, client)
	require.NoError(t, err)
	assert.Equal(t, 2, mailer.count(), "an up to date archive is only emailed again")
}

func TestZipServiceRebuildsArchiveAfterImagesChange(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewMemoryStore("http://localhost/media")
	mailer := &recordingMailer{}
	imageService := services.NewImageService(services.ImageServiceConfig{DB: db})
	shootService := services.NewShootService(services.ShootServiceConfig{DB: db})

	service := services.NewZipService(services.ZipServiceConfig{
		BaseDownloadURL: "https://studio.test",
		EmailService:    mailer,
		ImageService:    imageService,
		Store:           store,
	})

	shoot := createShoot(t, db, &models.Shoot{Title: "Garden Party"})
	images := addImages(t, db, shoot.ID, 1)
	require.NoError(t, store.Put(storage.ShootKey(shoot.ID, storage.FolderOriginals, images[0].FileName), strings.NewReader("first")))

	shoot, err := shootService.GetShoot(shoot.ID)
	require.NoError(t, err)

	client := &models.Client{Name: "Lee", Email: "lee@example.com"}

	name, err := service.CreateZipAsync(shoot, client)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return mailer.count() == 1 }, 5*time.Second, 10*time.Millisecond)

	time.Sleep(10 * time.Millisecond)

	added, err := imageService.Add(shoot.ID, "IMG_LATE.jpg", 3000, 2000)
	require.NoError(t, err)
	require.NoError(t, store.Put(storage.ShootKey(shoot.ID, storage.FolderOriginals, added.FileName), strings.NewReader("second")))

	shoot, err = shootService.GetShoot(shoot.ID)
	require.NoError(t, err)

	_, err = service.CreateZipAsync(shoot, client)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return mailer.count() == 2 }, 5*time.Second, 10*time.Millisecond)

	obj, err := store.Get(storage.ShootKey(shoot.ID, storage.FolderDownloads, name))
	require.NoError(t, err)

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	assert.Equal(t, "IMG_LATE.jpg", reader.File[1].Name)
}

func TestZipServiceCleanup(t *testing.T) {
	store := storage.NewMemoryStore("http://localhost/media")

	service := services.NewZipService(services.ZipServiceConfig{
		EmailService:   &recordingMailer{},
		ExpirationDays: 7,
		Store:          store,
	})

	store.SetClock(func() time.Time { return time.Now().AddDate(0, 0, -10) })
	require.NoError(t, store.Put(storage.ShootKey(1, storage.FolderDownloads, "old-1.zip"), strings.NewReader("old")))
	require.NoError(t, store.Put(storage.ShootKey(1, storage.FolderOriginals, "archive.zip"), strings.NewReader("not a download")))

	store.SetClock(time.Now)
	require.NoError(t, store.Put(storage.ShootKey(2, storage.FolderDownloads, "new-2.zip"), strings.NewReader("new")))

	assert.Equal(t, 1, service.CleanupExpiredZips())

	remaining, err := store.List("shoots/")
	require.NoError(t, err)

	keys := make([]string, 0, len(remaining))
	for _, obj := range remaining {
		keys = append(keys, obj.Key)
	}

	assert.ElementsMatch(t, []string{
		"shoots/1/originals/archive.zip",
		"shoots/2/downloads/new-2.zip",
	}, keys)
}
