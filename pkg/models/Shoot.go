package models

import (
	"fmt"
	"time"
)

var (
	ErrShootNotFound = fmt.Errorf("shoot not found")
	ErrInvalidShoot  = fmt.Errorf("invalid shoot")
	ErrSlugTaken     = fmt.Errorf("slug is already used by another shoot")
)

const (
	CategoryPhotography = "photography"
	CategoryVideography = "videography"
)

/*
Shoot is a single gallery. Public shoots appear on the category pages,
private ones only in the owning client's portal.
*/
type Shoot struct {
	BaseModel

	ClientID    uint   `db:"client_id"`
	Client      Client `db:"client"`
	Title       string
	Slug        string
	Description string
	Category    string
	Location    string
	VideoURL    string `db:"video_url"`
	ShootDate   time.Time
	IsPublic    bool
	IsFeatured  bool

	Layout       string
	Spacing      int
	BorderRadius int
	BorderWidth  int
	BorderColor  string
	Columns      int
	CoverImageID uint   `db:"cover_image_id"`
	CoverYPos    string `db:"cover_y_pos"`
	CoverFile    string `db:"cover_file"`

	Images    []Image
	Favorites []Favorite
}

func IsValidCategory(category string) bool {
	return category == CategoryPhotography || category == CategoryVideography
}
