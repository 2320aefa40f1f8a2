package cache

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/imaging"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/alitto/pond/v2"
)

type CacheCreator interface {
	CreateCache() CacheStats
}

type CacheCreatorConfig struct {
	ImageService    services.ImageServicer
	MaxCacheWorkers int
	Region          string
	ShootService    services.ShootServicer
	ShutdownCtx     context.Context
	Store           storage.ObjectStore
}

/*
CacheCreatorService keeps derived images in step with the originals: a
thumbnail for every image, a hero banner for every shoot's cover, and pixel
dimensions for images uploaded without them.
*/
type CacheCreatorService struct {
	imageService    services.ImageServicer
	maxCacheWorkers int
	region          string
	shootService    services.ShootServicer
	shutdownCtx     context.Context
	store           storage.ObjectStore
}

type CacheStats struct {
	Thumbnails  int64
	HeroBanners int64
	Measured    int64
	Failures    int64
}

func NewCacheCreatorService(config CacheCreatorConfig) CacheCreatorService {
	if config.MaxCacheWorkers <= 0 {
		config.MaxCacheWorkers = 4
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return CacheCreatorService{
		imageService:    config.ImageService,
		maxCacheWorkers: config.MaxCacheWorkers,
		region:          config.Region,
		shootService:    config.ShootService,
		shutdownCtx:     config.ShutdownCtx,
		store:           config.Store,
	}
}

func (c CacheCreatorService) CreateCache() CacheStats {
	var (
		err    error
		shoots []*models.Shoot
		images []models.Image
		stats  struct {
			thumbnails, heroBanners, measured, failures atomic.Int64
		}
	)

	slog.Info("starting cache creation...")

	if err = c.store.EnsureBucket(c.region); err != nil {
		slog.Error("error ensuring bucket exists. skipping cache creation", "error", err)
		return CacheStats{Failures: 1}
	}

	if shoots, err = c.shootService.ListAll(); err != nil {
		slog.Error("error retrieving shoots from database", "error", err)
		return CacheStats{Failures: 1}
	}

	slog.Info("creating cache for shoots...", "numShoots", len(shoots))

	pool := pond.NewPool(c.maxCacheWorkers, pond.WithContext(c.shutdownCtx))

	for _, shoot := range shoots {
		l := slog.With("shootID", shoot.ID)

		if images, err = c.imageService.List(shoot.ID); err != nil {
			l.Error("error retrieving images for shoot", "error", err)
			stats.failures.Add(1)
			continue
		}

		coverID := gallery.ResolveCover(services.GalleryItems(images), shoot.CoverImageID)

		for _, image := range images {
			pool.Submit(func() {
				originalKey := storage.ShootKey(shoot.ID, storage.FolderOriginals, image.FileName)
				original, exists, err := c.originalTime(originalKey)

				if err != nil || !exists {
					l.Error("original image is missing", "key", originalKey, "error", err)
					stats.failures.Add(1)
					return
				}

				if image.Width == 0 || image.Height == 0 {
					if err := c.measure(image, originalKey); err != nil {
						l.Error("error measuring image", "imageID", image.ID, "error", err)
						stats.failures.Add(1)
					} else {
						stats.measured.Add(1)
					}
				}

				thumbnailKey := storage.ShootKey(shoot.ID, storage.FolderThumbnails, image.FileName)

				if c.needsRefresh(thumbnailKey, original) {
					l.Info("creating thumbnail", "key", thumbnailKey)

					if err := c.resizeObject(originalKey, thumbnailKey, imaging.ThumbnailSize); err != nil {
						l.Error("error creating thumbnail", "key", thumbnailKey, "error", err)
						stats.failures.Add(1)
					} else {
						stats.thumbnails.Add(1)
					}
				}

				if image.ID != coverID {
					return
				}

				heroKey := storage.ShootKey(shoot.ID, storage.FolderHeroBanner, image.FileName)

				if c.needsRefresh(heroKey, original) {
					l.Info("creating hero banner", "key", heroKey)

					if err := c.resizeObject(originalKey, heroKey, imaging.HeroBannerSize); err != nil {
						l.Error("error creating hero banner", "key", heroKey, "error", err)
						stats.failures.Add(1)
					} else {
						stats.heroBanners.Add(1)
					}
				}
			})
		}
	}

	_ = pool.Stop().Wait()

	result := CacheStats{
		Thumbnails:  stats.thumbnails.Load(),
		HeroBanners: stats.heroBanners.Load(),
		Measured:    stats.measured.Load(),
		Failures:    stats.failures.Load(),
	}

	slog.Info("cache creation finished", "thumbnails", result.Thumbnails, "heroBanners", result.HeroBanners, "measured", result.Measured, "failures", result.Failures)
	return result
}

/*
originalTime finds the last modified time of an original by listing its
folder, since that is the one place the store reports it.
*/
func (c CacheCreatorService) originalTime(key string) (storage.StoredObject, bool, error) {
	objects, err := c.store.List(key)

	if err != nil {
		return storage.StoredObject{}, false, err
	}

	for _, obj := range objects {
		if obj.Key == key {
			return obj, true, nil
		}
	}

	return storage.StoredObject{}, false, nil
}

func (c CacheCreatorService) needsRefresh(derivedKey string, original storage.StoredObject) bool {
	exists, stale, err := c.store.IsStale(derivedKey, original.LastModified)

	if err != nil {
		slog.Error("error retrieving metadata for derived image", "key", derivedKey, "error", err)
		return true
	}

	return !exists || stale
}

func (c CacheCreatorService) measure(image models.Image, originalKey string) error {
	object, err := c.store.Get(originalKey)

	if err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", originalKey, err)
	}

	defer object.Body.Close()

	width, height, err := imaging.Dimensions(object.Body)

	if err != nil {
		return err
	}

	return c.imageService.SetDimensions(image.ID, width, height)
}

func (c CacheCreatorService) resizeObject(originalKey, putKey string, maxSize uint) error {
	original, err := c.store.Get(originalKey)

	if err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", originalKey, err)
	}

	defer original.Body.Close()

	data, err := imaging.ResizeToJPEG(original.Body, maxSize)

	if err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = c.store.Put(putKey, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("error uploading %s: %w", putKey, err)
	}

	return nil
}
