package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/storage"
	"github.com/google/uuid"
	"github.com/rfberaldo/sqlz"
)

type SimpleAssetServicer interface {
	Get(key string) (*models.SimpleAsset, error)
	URL(key string) (string, error)
	List() ([]models.SimpleAsset, error)
	Upload(key, fileName, contentType string, body io.Reader) (*models.SimpleAsset, error)
	Delete(key string) error
}

type SimpleAssetServiceConfig struct {
	DB    *sqlz.DB
	Store storage.ObjectStore
}

/*
SimpleAssetService manages single named files used around the site, such as
the logo or the home page hero image. Uploading to an existing key replaces
the previous file.
*/
type SimpleAssetService struct {
	db    *sqlz.DB
	store storage.ObjectStore
}

const (
	AssetHomeHero    = "home-hero"
	AssetLogo        = "logo"
	AssetContactHero = "contact-hero"
	AssetStaffPrefix = "staff-"
)

/*
SiteAssets are the named assets the admin settings panel offers uploads for.
Staff photos are managed from the staff page.
*/
var SiteAssets = []string{AssetHomeHero, AssetLogo, AssetContactHero}

var (
	assetKeyRegex = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)
)

func NewSimpleAssetService(config SimpleAssetServiceConfig) SimpleAssetService {
	return SimpleAssetService{
		db:    config.DB,
		store: config.Store,
	}
}

func IsValidAssetKey(key string) bool {
	return assetKeyRegex.MatchString(key)
}

func (s SimpleAssetService) Get(key string) (*models.SimpleAsset, error) {
	if !IsValidAssetKey(key) {
		return nil, fmt.Errorf("%w: '%s'", models.ErrInvalidAssetKey, key)
	}

	result := &models.SimpleAsset{}

	sql := `
SELECT
   a.asset_key
   , a.object_key
   , a.file_name
   , a.content_type
   , a.size
   , a.updated_at
FROM simple_assets AS a
WHERE 1=1
   AND a.asset_key=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.QueryRow(ctx, result, sql, key); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: '%s'", models.ErrAssetNotFound, key)
		}

		return nil, fmt.Errorf("error querying for asset '%s': %w", key, err)
	}

	return result, nil
}

func (s SimpleAssetService) URL(key string) (string, error) {
	asset, err := s.Get(key)

	if err != nil {
		return "", err
	}

	return s.store.URL(asset.ObjectKey)
}

func (s SimpleAssetService) List() ([]models.SimpleAsset, error) {
	result := []models.SimpleAsset{}

	sql := `
SELECT
   a.asset_key
   , a.object_key
   , a.file_name
   , a.content_type
   , a.size
   , a.updated_at
FROM simple_assets AS a
ORDER BY a.asset_key
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for assets: %w", err)
	}

	return result, nil
}

func (s SimpleAssetService) Upload(key, fileName, contentType string, body io.Reader) (*models.SimpleAsset, error) {
	var (
		err      error
		previous *models.SimpleAsset
	)

	if !IsValidAssetKey(key) {
		return nil, fmt.Errorf("%w: '%s'", models.ErrInvalidAssetKey, key)
	}

	previous, _ = s.Get(key)

	counter := &countingReader{reader: body}
	objectKey := storage.AssetKey(key, uuid.NewString()+strings.ToLower(filepath.Ext(fileName)))

	if err = s.store.Put(objectKey, counter); err != nil {
		return nil, fmt.Errorf("error storing asset '%s': %w", key, err)
	}

	result := &models.SimpleAsset{
		Key:         key,
		ObjectKey:   objectKey,
		FileName:    filepath.Base(fileName),
		ContentType: contentType,
		Size:        counter.count,
		UpdatedAt:   time.Now().UTC(),
	}

	sql := `
INSERT INTO simple_assets (
   asset_key
   , object_key
   , file_name
   , content_type
   , size
   , updated_at
) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (asset_key) DO UPDATE SET
   object_key=excluded.object_key
   , file_name=excluded.file_name
   , content_type=excluded.content_type
   , size=excluded.size
   , updated_at=excluded.updated_at
`

	params := []any{
		result.Key,
		result.ObjectKey,
		result.FileName,
		result.ContentType,
		result.Size,
		result.UpdatedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		_ = s.store.Delete(objectKey)
		return nil, fmt.Errorf("error saving asset '%s': %w", key, err)
	}

	if previous != nil && previous.ObjectKey != objectKey {
		if err = s.store.Delete(previous.ObjectKey); err != nil {
			slog.Error("error removing replaced asset object", "key", key, "objectKey", previous.ObjectKey, "error", err)
		}
	}

	return result, nil
}

func (s SimpleAssetService) Delete(key string) error {
	asset, err := s.Get(key)

	if err != nil {
		return err
	}

	sql := `
DELETE FROM simple_assets
WHERE 1=1
   AND asset_key=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, key); err != nil {
		return fmt.Errorf("error deleting asset '%s': %w", key, err)
	}

	return s.store.Delete(asset.ObjectKey)
}

type countingReader struct {
	reader io.Reader
	count  int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.count += int64(n)
	return n, err
}

var _ SimpleAssetServicer = SimpleAssetService{}
