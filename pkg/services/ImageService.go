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

type ImageServicer interface {
	List(shootID uint) ([]models.Image, error)
	Get(id uint) (*models.Image, error)
	ListUnmeasured(shootID uint) ([]models.Image, error)
	Add(shootID uint, fileName string, width, height int) (*models.Image, error)
	SetDimensions(id uint, width, height int) error
	Reorder(shootID uint, imageIDs []uint) ([]models.Image, error)
	Move(shootID uint, from, to int) ([]models.Image, error)
	Delete(shootID, imageID uint) (*models.Image, error)
}

type ImageServiceConfig struct {
	DB *sqlz.DB
}

type ImageService struct {
	db *sqlz.DB
}

var (
	ErrInvalidDimensions = fmt.Errorf("width and height must be greater than zero")
)

const imageColumns = `
   i.id
   , i.created_at
   , i.shoot_id
   , i.file_name
   , i.width
   , i.height
   , i.sequence
   , i.caption
`

func NewImageService(config ImageServiceConfig) ImageService {
	return ImageService{
		db: config.DB,
	}
}

/*
GalleryItems converts image rows into the layout engine's items.
*/
func GalleryItems(images []models.Image) []gallery.Item {
	result := make([]gallery.Item, 0, len(images))

	for _, image := range images {
		result = append(result, gallery.Item{
			ID:       image.ID,
			Width:    image.Width,
			Height:   image.Height,
			Sequence: image.Sequence,
		})
	}

	return result
}

func (s ImageService) List(shootID uint) ([]models.Image, error) {
	result := []models.Image{}

	sql := `
SELECT ` + imageColumns + `
FROM images AS i
WHERE 1=1
   AND i.shoot_id=?
ORDER BY i.sequence, i.id
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, shootID); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for images in shoot %d: %w", shootID, err)
	}

	return result, nil
}

func (s ImageService) Get(id uint) (*models.Image, error) {
	result := &models.Image{}

	sql := `
SELECT ` + imageColumns + `
FROM images AS i
WHERE 1=1
   AND i.id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.QueryRow(ctx, result, sql, id); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", models.ErrImageNotFound, id)
		}

		return nil, fmt.Errorf("error querying for image %d: %w", id, err)
	}

	return result, nil
}

/*
ListUnmeasured returns images in a shoot whose pixel dimensions have not been
recorded yet.
*/
func (s ImageService) ListUnmeasured(shootID uint) ([]models.Image, error) {
	result := []models.Image{}

	sql := `
SELECT ` + imageColumns + `
FROM images AS i
WHERE 1=1
   AND i.shoot_id=?
   AND (i.width=0 OR i.height=0)
ORDER BY i.sequence
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, shootID); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for unmeasured images in shoot %d: %w", shootID, err)
	}

	return result, nil
}

/*
Add records a new image at the end of the shoot's sequence. Width and height
may be zero when they are not known yet.
*/
func (s ImageService) Add(shootID uint, fileName string, width, height int) (*models.Image, error) {
	var (
		err    error
		images []models.Image
	)

	fileName = strings.TrimSpace(fileName)

	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	if images, err = s.List(shootID); err != nil {
		return nil, err
	}

	result := &models.Image{
		CreatedAt: time.Now().UTC(),
		ShootID:   shootID,
		FileName:  fileName,
		Width:     max(width, 0),
		Height:    max(height, 0),
		Sequence:  len(images) + 1,
	}

	sql := `
INSERT INTO images (
   created_at
   , shoot_id
   , file_name
   , width
   , height
   , sequence
) VALUES (?, ?, ?, ?, ?, ?)
`

	params := []any{
		result.CreatedAt,
		result.ShootID,
		result.FileName,
		result.Width,
		result.Height,
		result.Sequence,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	execResult, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		return nil, fmt.Errorf("error inserting image '%s' into shoot %d: %w", fileName, shootID, err)
	}

	id, err := execResult.LastInsertId()

	if err != nil {
		return nil, fmt.Errorf("error getting new image ID: %w", err)
	}

	result.ID = uint(id)

	if err = s.touchShoot(shootID); err != nil {
		return result, err
	}

	return result, nil
}

func (s ImageService) SetDimensions(id uint, width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}

	sql := `
UPDATE images SET
   width=?
   , height=?
WHERE 1=1
   AND id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, width, height, id)

	if err != nil {
		return fmt.Errorf("error setting dimensions for image %d: %w", id, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %d", models.ErrImageNotFound, id)
	}

	return nil
}

/*
Reorder saves a new image order for a shoot. imageIDs must list every image in
the shoot exactly once. Sequence numbers are rewritten as 1..n.
*/
func (s ImageService) Reorder(shootID uint, imageIDs []uint) ([]models.Image, error) {
	var (
		err     error
		images  []models.Image
		ordered []gallery.Item
	)

	if images, err = s.List(shootID); err != nil {
		return nil, err
	}

	if ordered, err = gallery.ApplyOrder(GalleryItems(images), imageIDs); err != nil {
		return nil, err
	}

	if err = s.saveSequence(shootID, ordered); err != nil {
		return nil, err
	}

	if err = s.touchShoot(shootID); err != nil {
		return nil, err
	}

	return s.List(shootID)
}

/*
Move drags the image at position from to position to (zero based, in current
sequence order) and saves the result.
*/
func (s ImageService) Move(shootID uint, from, to int) ([]models.Image, error) {
	var (
		err     error
		images  []models.Image
		ordered []gallery.Item
	)

	if images, err = s.List(shootID); err != nil {
		return nil, err
	}

	if ordered, err = gallery.Move(GalleryItems(images), from, to); err != nil {
		return nil, err
	}

	if err = s.saveSequence(shootID, ordered); err != nil {
		return nil, err
	}

	if err = s.touchShoot(shootID); err != nil {
		return nil, err
	}

	return s.List(shootID)
}

/*
Delete removes an image from a shoot, closes the gap in the sequence, and
clears the shoot's cover if it pointed at this image. The deleted row is
returned so the caller can remove the stored files.
*/
func (s ImageService) Delete(shootID, imageID uint) (*models.Image, error) {
	var (
		err       error
		image     *models.Image
		remaining []models.Image
	)

	if image, err = s.Get(imageID); err != nil {
		return nil, err
	}

	if image.ShootID != shootID {
		return nil, fmt.Errorf("%w: image %d is not part of shoot %d", models.ErrImageNotFound, imageID, shootID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	sql := `
UPDATE shoots SET
   cover_image_id=NULL
   , cover_y_pos=NULL
WHERE 1=1
   AND id=?
   AND cover_image_id=?
`

	if _, err = s.db.Exec(ctx, sql, shootID, imageID); err != nil {
		return nil, fmt.Errorf("error clearing cover image %d for shoot %d: %w", imageID, shootID, err)
	}

	sql = `
DELETE FROM images
WHERE 1=1
   AND id=?
   AND shoot_id=?
`

	if _, err = s.db.Exec(ctx, sql, imageID, shootID); err != nil {
		return nil, fmt.Errorf("error deleting image %d from shoot %d: %w", imageID, shootID, err)
	}

	if remaining, err = s.List(shootID); err != nil {
		return image, err
	}

	if err = s.saveSequence(shootID, gallery.Resequence(GalleryItems(remaining))); err != nil {
		return image, err
	}

	if err = s.touchShoot(shootID); err != nil {
		return image, err
	}

	return image, nil
}

/*
saveSequence writes every item's sequence number in a single UPDATE so the
order never ends up half applied.
*/
func (s ImageService) saveSequence(shootID uint, items []gallery.Item) error {
	if len(items) == 0 {
		return nil
	}

	cases := strings.Builder{}
	params := make([]any, 0, len(items)*2+1)

	for _, item := range items {
		cases.WriteString(" WHEN ? THEN ?")
		params = append(params, item.ID, item.Sequence)
	}

	params = append(params, shootID)

	sql := `
UPDATE images SET
   sequence=CASE id` + cases.String() + ` ELSE sequence END
WHERE 1=1
   AND shoot_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving image order for shoot %d: %w", shootID, err)
	}

	return nil
}

/*
touchShoot bumps the shoot's updated_at whenever its set of images or their
order changes. Download archives older than that are rebuilt.
*/
func (s ImageService) touchShoot(shootID uint) error {
	sql := `
UPDATE shoots SET
   updated_at=?
WHERE 1=1
   AND id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, sql, time.Now().UTC(), shootID); err != nil {
		return fmt.Errorf("error updating shoot %d after an image change: %w", shootID, err)
	}

	return nil
}

var _ ImageServicer = ImageService{}
