package admin

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	"github.com/adampresley/studiosite/pkg/database"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	mux          *http.ServeMux
	store        *storage.MemoryStore
	shootService services.ShootService
	imageService services.ImageService
	assetService services.SimpleAssetService
	shoot        *models.Shoot
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &adminFixture{
		mux:          http.NewServeMux(),
		store:        storage.NewMemoryStore("http://localhost/media"),
		shootService: services.NewShootService(services.ShootServiceConfig{DB: db}),
		imageService: services.NewImageService(services.ImageServiceConfig{DB: db}),
	}

	f.assetService = services.NewSimpleAssetService(services.SimpleAssetServiceConfig{DB: db, Store: f.store})

	controller := NewAdminController(AdminControllerConfig{
		AssetService: f.assetService,
		Builder:      galleryview.NewBuilder(galleryview.BuilderConfig{Store: f.store}),
		ImageService: f.imageService,
		ShootService: f.shootService,
		Store:        f.store,
	})

	f.mux.HandleFunc("POST /admin/shoots/{id}/images", controller.UploadImagesAction)
	f.mux.HandleFunc("POST /admin/shoots/{id}/images/{imageid}/delete", controller.DeleteImageAction)
	f.mux.HandleFunc("POST /admin/shoots/{id}/delete", controller.DeleteShootAction)
	f.mux.HandleFunc("POST /admin/assets", controller.AssetUploadAction)
	f.mux.HandleFunc("POST /admin/assets/{key}/delete", controller.AssetDeleteAction)

	f.shoot = &models.Shoot{Title: "Upload Shoot"}
	require.NoError(t, f.shootService.Create(f.shoot))

	return f
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	buffer := &bytes.Buffer{}
	require.NoError(t, png.Encode(buffer, img))
	return buffer.Bytes()
}

type upload struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, target, body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func (f *adminFixture) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

func TestUploadImagesAction(t *testing.T) {
	f := newAdminFixture(t)
	target := "/admin/shoots/" + itoa(f.shoot.ID) + "/images"

	w := f.serve(multipartRequest(t, target, nil,
		upload{field: "images", name: "Beach Day.png", data: pngBytes(t, 60, 40)},
		upload{field: "images", name: "Beach Day.png", data: pngBytes(t, 40, 60)},
	))

	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin/shoots/"+itoa(f.shoot.ID)+"/gallery", w.Header().Get("Location"))

	images, err := f.imageService.List(f.shoot.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "Beach-Day.png", images[0].FileName)
	assert.Equal(t, 60, images[0].Width)
	assert.Equal(t, 40, images[0].Height)
	assert.Equal(t, 1, images[0].Sequence)

	assert.Equal(t, "Beach-Day-2.png", images[1].FileName)
	assert.Equal(t, 2, images[1].Sequence)

	for _, image := range images {
		for _, folder := range []string{storage.FolderOriginals, storage.FolderThumbnails} {
			object, err := f.store.Get(storage.ShootKey(f.shoot.ID, folder, image.FileName))
			require.NoError(t, err, folder)
			object.Body.Close()
		}
	}
}

func TestUploadImagesActionRejectsBadFiles(t *testing.T) {
	f := newAdminFixture(t)
	target := "/admin/shoots/" + itoa(f.shoot.ID) + "/images"

	w := f.serve(multipartRequest(t, target, nil,
		upload{field: "images", name: "notes.txt", data: []byte("not an image")},
	))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "notes.txt")

	images, err := f.imageService.List(f.shoot.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	w = f.serve(multipartRequest(t, target, map[string]string{"other": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.serve(multipartRequest(t, "/admin/shoots/9999/images", nil,
		upload{field: "images", name: "a.png", data: pngBytes(t, 10, 10)},
	))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type thumbnailFailingStore struct {
	*storage.MemoryStore
	failName string
}

func (s thumbnailFailingStore) Put(key string, body io.Reader) error {
	if strings.HasSuffix(key, "/thumbnails/"+s.failName) {
		return errors.New("thumbnail write failed")
	}

	return s.MemoryStore.Put(key, body)
}

func TestUploadImagesActionRemovesObjectsOfFailedFile(t *testing.T) {
	f := newAdminFixture(t)
	store := thumbnailFailingStore{MemoryStore: f.store, failName: "bad.png"}

	controller := NewAdminController(AdminControllerConfig{
		ImageService: f.imageService,
		ShootService: f.shootService,
		Store:        store,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/shoots/{id}/images", controller.UploadImagesAction)

	r := multipartRequest(t, "/admin/shoots/"+itoa(f.shoot.ID)+"/images", nil,
		upload{field: "images", name: "good.png", data: pngBytes(t, 30, 20)},
		upload{field: "images", name: "bad.png", data: pngBytes(t, 30, 20)},
	)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad.png")

	images, err := f.imageService.List(f.shoot.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "good.png", images[0].FileName)

	objects, err := f.store.List(storage.ShootKey(f.shoot.ID, storage.FolderOriginals) + "/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, storage.ShootKey(f.shoot.ID, storage.FolderOriginals, "good.png"), objects[0].Key)
}

func TestDeleteImageAction(t *testing.T) {
	f := newAdminFixture(t)

	w := f.serve(multipartRequest(t, "/admin/shoots/"+itoa(f.shoot.ID)+"/images", nil,
		upload{field: "images", name: "one.png", data: pngBytes(t, 30, 20)},
		upload{field: "images", name: "two.png", data: pngBytes(t, 30, 20)},
	))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	images, err := f.imageService.List(f.shoot.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)

	target := "/admin/shoots/" + itoa(f.shoot.ID) + "/images/" + itoa(images[0].ID) + "/delete"
	w = f.serve(httptest.NewRequest(http.MethodPost, target, nil))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	remaining, err := f.imageService.List(f.shoot.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "two.png", remaining[0].FileName)
	assert.Equal(t, 1, remaining[0].Sequence)

	objects, err := f.store.List(storage.ShootKey(f.shoot.ID, storage.FolderOriginals))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.True(t, strings.HasSuffix(objects[0].Key, "two.png"))

	w = f.serve(httptest.NewRequest(http.MethodPost, target, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteShootAction(t *testing.T) {
	f := newAdminFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/admin/shoots/"+itoa(f.shoot.ID)+"/delete", nil)
	r.Header.Set("HX-Request", "true")
	w := f.serve(r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/admin/shoots", w.Header().Get("HX-Redirect"))

	_, err := f.shootService.GetShoot(f.shoot.ID)
	assert.ErrorIs(t, err, models.ErrShootNotFound)
}

func TestAssetUploadAndDelete(t *testing.T) {
	f := newAdminFixture(t)

	w := f.serve(multipartRequest(t, "/admin/assets", map[string]string{"key": services.AssetLogo},
		upload{field: "file", name: "logo.png", data: pngBytes(t, 8, 8)},
	))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	asset, err := f.assetService.Get(services.AssetLogo)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", asset.FileName)

	w = f.serve(multipartRequest(t, "/admin/assets", map[string]string{"key": "Not Valid"},
		upload{field: "file", name: "logo.png", data: pngBytes(t, 8, 8)},
	))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.serve(httptest.NewRequest(http.MethodPost, "/admin/assets/"+services.AssetLogo+"/delete", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)

	_, err = f.assetService.Get(services.AssetLogo)
	assert.ErrorIs(t, err, models.ErrAssetNotFound)
}

func TestUniqueFileName(t *testing.T) {
	taken := map[string]bool{"img.jpg": true, "img-2.jpg": true}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "free name is kept", in: "other.jpg", want: "other.jpg"},
		{name: "taken name gets a suffix", in: "IMG.jpg", want: "IMG-3.jpg"},
		{name: "spaces become dashes", in: "my photo.jpg", want: "my-photo.jpg"},
		{name: "directories are stripped", in: `C:\Users\me\shot.jpg`, want: "shot.jpg"},
		{name: "empty name gets a default", in: " ", want: "image.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueFileName(tt.in, taken))
		})
	}
}
