package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ShootServicer interface {
	GetShoot(id uint) (*models.Shoot, error)
	GetShootBySlug(slug string) (*models.Shoot, error)
	GetShootForClient(clientID, shootID uint) (*models.Shoot, error)
	ListForClient(clientID uint) ([]*models.Shoot, error)
	ListPublic(category string) ([]*models.Shoot, error)
	ListFeatured(limit int) ([]*models.Shoot, error)
	ListAll() ([]*models.Shoot, error)
	Create(shoot *models.Shoot) error
	Update(shoot *models.Shoot) error
	Delete(id uint) error
	UpdateGallerySettings(id uint, settings gallery.Settings) error
	SetCover(shootID, imageID uint, yPos string) error
}

type ShootServiceConfig struct {
	DB *sqlz.DB
}

type ShootService struct {
	db *sqlz.DB
}

const shootColumns = `
   s.id
   , s.created_at
   , s.updated_at
   , s.deleted_at
   , COALESCE(s.client_id, 0) AS client_id
   , s.title
   , s.slug
   , s.description
   , s.category
   , s.location
   , s.video_url
   , s.shoot_date
   , s.is_public
   , s.is_featured
   , s.layout
   , s.spacing
   , s.border_radius
   , s.border_width
   , s.border_color
   , s.columns
   , COALESCE(s.cover_image_id, 0) AS cover_image_id
   , COALESCE(s.cover_y_pos, '') AS cover_y_pos
   , COALESCE(ci.file_name, '') AS cover_file
`

func NewShootService(config ShootServiceConfig) ShootService {
	return ShootService{
		db: config.DB,
	}
}

/*
GallerySettings pulls the customizable gallery settings out of a shoot.
*/
func GallerySettings(shoot *models.Shoot) gallery.Settings {
	return gallery.Settings{
		Layout:       gallery.Layout(shoot.Layout),
		Spacing:      shoot.Spacing,
		BorderRadius: shoot.BorderRadius,
		BorderWidth:  shoot.BorderWidth,
		BorderColor:  shoot.BorderColor,
		Columns:      shoot.Columns,
	}.Normalize()
}

func (s ShootService) GetShoot(id uint) (*models.Shoot, error) {
	sql := `
SELECT ` + shootColumns + `
FROM shoots AS s
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
   AND s.id=?
`

	return s.queryOne(sql, id)
}

func (s ShootService) GetShootBySlug(slug string) (*models.Shoot, error) {
	sql := `
SELECT ` + shootColumns + `
FROM shoots AS s
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
   AND s.slug=?
`

	return s.queryOne(sql, slug)
}

/*
GetShootForClient returns a shoot only if it belongs to the client, along with
the client's favorites in it.
*/
func (s ShootService) GetShootForClient(clientID, shootID uint) (*models.Shoot, error) {
	var (
		err error
	)

	result := &models.Shoot{}

	sql := `
SELECT ` + shootColumns + `
   , c.id AS "client.id"
   , c.created_at AS "client.created_at"
   , c.updated_at AS "client.updated_at"
   , c.deleted_at AS "client.deleted_at"
   , c.name AS "client.name"
   , c.email AS "client.email"
FROM shoots AS s
   INNER JOIN clients AS c ON c.id=s.client_id
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
   AND c.deleted_at IS NULL
   AND s.id=?
   AND s.client_id=?
`

	params := []any{shootID, clientID}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, params...); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: shoot %d, client %d", models.ErrShootNotFound, shootID, clientID)
		}

		return nil, fmt.Errorf("error querying for shoot %d, client %d: %w", shootID, clientID, err)
	}

	sql = `
SELECT
   client_id
   , shoot_id
   , image_id
FROM favorites
WHERE 1=1
   AND client_id=?
   AND shoot_id=?
`

	ctx, cancel = context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result.Favorites, sql, clientID, shootID); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for favorites for shoot %d, client %d: %w", shootID, clientID, err)
	}

	return result, nil
}

func (s ShootService) ListForClient(clientID uint) ([]*models.Shoot, error) {
	sql := `
SELECT ` + shootColumns + `
FROM shoots AS s
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
   AND s.client_id=?
ORDER BY s.shoot_date DESC
`

	return s.queryMany(sql, clientID)
}

func (s ShootService) ListPublic(category string) ([]*models.Shoot, error) {
	sql := `
SELECT ` + shootColumns + `
FROM shoots AS s
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
   AND s.is_public=1
   AND s.category=?
ORDER BY s.shoot_date DESC
`

	return s.queryMany(sql, category)
}

func (s ShootService) ListFeatured(limit int) ([]*models.Shoot, error) {
	sql := `
SELECT ` + shootColumns + `
FROM shoots AS s
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
   AND s.is_public=1
   AND s.is_featured=1
ORDER BY s.shoot_date DESC
LIMIT ?
`

	return s.queryMany(sql, limit)
}

func (s ShootService) ListAll() ([]*models.Shoot, error) {
	sql := `
SELECT ` + shootColumns + `
FROM shoots AS s
   LEFT JOIN images AS ci ON ci.id=s.cover_image_id
WHERE 1=1
   AND s.deleted_at IS NULL
ORDER BY s.shoot_date DESC
`

	return s.queryMany(sql)
}

/*
Create inserts a new shoot. A slug is generated from the title when none is
given, and gallery settings start from the defaults.
*/
func (s ShootService) Create(shoot *models.Shoot) error {
	var (
		err error
	)

	if err = s.prepare(shoot); err != nil {
		return err
	}

	defaults := gallery.DefaultSettings()

	if shoot.Layout == "" {
		shoot.Layout = string(defaults.Layout)
		shoot.Spacing = defaults.Spacing
		shoot.BorderColor = defaults.BorderColor
		shoot.Columns = defaults.Columns
	}

	settings := GallerySettings(shoot)
	now := time.Now().UTC()

	sql := `
INSERT INTO shoots (
   created_at
   , updated_at
   , client_id
   , title
   , slug
   , description
   , category
   , location
   , video_url
   , shoot_date
   , is_public
   , is_featured
   , layout
   , spacing
   , border_radius
   , border_width
   , border_color
   , columns
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		now,
		now,
		nullableID(shoot.ClientID),
		shoot.Title,
		shoot.Slug,
		shoot.Description,
		shoot.Category,
		shoot.Location,
		shoot.VideoURL,
		shoot.ShootDate,
		shoot.IsPublic,
		shoot.IsFeatured,
		string(settings.Layout),
		settings.Spacing,
		settings.BorderRadius,
		settings.BorderWidth,
		settings.BorderColor,
		settings.Columns,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: '%s'", models.ErrSlugTaken, shoot.Slug)
		}

		return fmt.Errorf("error inserting shoot '%s': %w", shoot.Title, err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return fmt.Errorf("error getting new shoot ID: %w", err)
	}

	shoot.ID = uint(id)
	shoot.CreatedAt = now
	shoot.UpdatedAt = now
	return nil
}

/*
Update saves a shoot's descriptive fields. Gallery settings and the cover
image have their own methods.
*/
func (s ShootService) Update(shoot *models.Shoot) error {
	var (
		err error
	)

	if err = s.prepare(shoot); err != nil {
		return err
	}

	sql := `
UPDATE shoots SET
   updated_at=?
   , client_id=?
   , title=?
   , slug=?
   , description=?
   , category=?
   , location=?
   , video_url=?
   , shoot_date=?
   , is_public=?
   , is_featured=?
WHERE 1=1
   AND id=?
   AND deleted_at IS NULL
`

	params := []any{
		time.Now().UTC(),
		nullableID(shoot.ClientID),
		shoot.Title,
		shoot.Slug,
		shoot.Description,
		shoot.Category,
		shoot.Location,
		shoot.VideoURL,
		shoot.ShootDate,
		shoot.IsPublic,
		shoot.IsFeatured,
		shoot.ID,
	}

	if err = s.execOne(sql, shoot.ID, params...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: '%s'", models.ErrSlugTaken, shoot.Slug)
		}

		return err
	}

	return nil
}

func (s ShootService) Delete(id uint) error {
	sql := `
UPDATE shoots SET
   deleted_at=?
WHERE 1=1
   AND id=?
   AND deleted_at IS NULL
`

	return s.execOne(sql, id, time.Now().UTC(), id)
}

func (s ShootService) UpdateGallerySettings(id uint, settings gallery.Settings) error {
	var (
		err error
	)

	if err = settings.Validate(); err != nil {
		return err
	}

	sql := `
UPDATE shoots SET
   updated_at=?
   , layout=?
   , spacing=?
   , border_radius=?
   , border_width=?
   , border_color=?
   , columns=?
WHERE 1=1
   AND id=?
   AND deleted_at IS NULL
`

	params := []any{
		time.Now().UTC(),
		string(settings.Layout),
		settings.Spacing,
		settings.BorderRadius,
		settings.BorderWidth,
		strings.ToLower(settings.BorderColor),
		settings.Columns,
		id,
	}

	return s.execOne(sql, id, params...)
}

/*
SetCover makes imageID the shoot's cover. The image has to belong to the shoot.
*/
func (s ShootService) SetCover(shootID, imageID uint, yPos string) error {
	var (
		err   error
		image models.Image
	)

	sql := `
SELECT
   i.id
   , i.shoot_id
FROM images AS i
WHERE 1=1
   AND i.id=?
   AND i.shoot_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &image, sql, imageID, shootID); err != nil {
		if sqlz.IsNotFound(err) {
			return fmt.Errorf("%w: image %d is not part of shoot %d", models.ErrImageNotFound, imageID, shootID)
		}

		return fmt.Errorf("error checking image %d for shoot %d: %w", imageID, shootID, err)
	}

	sql = `
UPDATE shoots SET
   updated_at=?
   , cover_image_id=?
   , cover_y_pos=?
WHERE 1=1
   AND id=?
   AND deleted_at IS NULL
`

	return s.execOne(sql, shootID, time.Now().UTC(), imageID, gallery.NormalizeYPos(yPos), shootID)
}

func (s ShootService) prepare(shoot *models.Shoot) error {
	shoot.Title = strings.TrimSpace(shoot.Title)

	if shoot.Title == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidShoot)
	}

	if shoot.Category == "" {
		shoot.Category = models.CategoryPhotography
	}

	if !models.IsValidCategory(shoot.Category) {
		return fmt.Errorf("%w: unknown category '%s'", models.ErrInvalidShoot, shoot.Category)
	}

	shoot.Slug = Slugify(shoot.Slug)

	if shoot.Slug == "" {
		shoot.Slug = Slugify(shoot.Title)
	}

	if shoot.Slug == "" {
		return fmt.Errorf("%w: title must contain letters or numbers", models.ErrInvalidShoot)
	}

	if shoot.ShootDate.IsZero() {
		shoot.ShootDate = time.Now().UTC()
	}

	return nil
}

func (s ShootService) queryOne(sql string, params ...any) (*models.Shoot, error) {
	result := &models.Shoot{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.QueryRow(ctx, result, sql, params...); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrShootNotFound, params)
		}

		return nil, fmt.Errorf("error querying for shoot %v: %w", params, err)
	}

	return result, nil
}

func (s ShootService) queryMany(sql string, params ...any) ([]*models.Shoot, error) {
	result := []*models.Shoot{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, params...); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for shoots %v: %w", params, err)
	}

	return result, nil
}

func (s ShootService) execOne(sql string, id uint, params ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		return fmt.Errorf("error updating shoot %d: %w", id, err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("error reading rows affected for shoot %d: %w", id, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %d", models.ErrShootNotFound, id)
	}

	return nil
}

var _ ShootServicer = ShootService{}
