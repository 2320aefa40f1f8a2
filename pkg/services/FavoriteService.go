package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type FavoriteServicer interface {
	ListForShoot(clientID, shootID uint) ([]models.Favorite, error)
	ToggleFavorite(clientID, shootID, imageID uint) (bool, error)
}

type FavoriteServiceConfig struct {
	DB *sqlz.DB
}

type FavoriteService struct {
	db *sqlz.DB
}

func NewFavoriteService(config FavoriteServiceConfig) FavoriteService {
	return FavoriteService{
		db: config.DB,
	}
}

func (s FavoriteService) ListForShoot(clientID, shootID uint) ([]models.Favorite, error) {
	result := []models.Favorite{}

	sql := `
SELECT
   client_id
   , shoot_id
   , image_id
FROM favorites
WHERE 1=1
   AND client_id=?
   AND shoot_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, clientID, shootID); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for favorites for client %d, shoot %d: %w", clientID, shootID, err)
	}

	return result, nil
}

/*
ToggleFavorite flips an image's favorite state for a client. The returned bool
is true when the image *was* a favorite (and has now been removed).
*/
func (s FavoriteService) ToggleFavorite(clientID, shootID, imageID uint) (bool, error) {
	var (
		err      error
		exists   bool
		favorite models.Favorite
	)

	sql := `
SELECT
   client_id
   , shoot_id
   , image_id
FROM favorites
WHERE 1=1
   AND client_id=?
   AND shoot_id=?
   AND image_id=?
`

	params := []any{
		clientID,
		shootID,
		imageID,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err = s.db.QueryRow(ctx, &favorite, sql, params...)

	if err != nil {
		if !sqlz.IsNotFound(err) {
			return false, fmt.Errorf("error checking if favorite exists for client %d, shoot %d, image %d: %w",
				clientID, shootID, imageID, err)
		}
	} else {
		exists = true
	}

	if exists {
		sql = `
DELETE FROM favorites
WHERE 1=1
   AND client_id=?
   AND shoot_id=?
   AND image_id=?
`

		if _, err = s.db.Exec(ctx, sql, params...); err != nil {
			return false, fmt.Errorf("error removing favorite for client %d, shoot %d, image %d: %w",
				clientID, shootID, imageID, err)
		}
	} else {
		sql = `
INSERT INTO favorites (
   client_id
   , shoot_id
   , image_id
) VALUES (?, ?, ?)
`

		if _, err = s.db.Exec(ctx, sql, params...); err != nil {
			return false, fmt.Errorf("error adding favorite for client %d, shoot %d, image %d: %w",
				clientID, shootID, imageID, err)
		}
	}

	return exists, nil
}

var _ FavoriteServicer = FavoriteService{}
