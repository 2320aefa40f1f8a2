package models

import (
	"fmt"
	"time"
)

var (
	ErrInvalidEvent = fmt.Errorf("invalid analytics event")
)

const (
	EventGalleryView = "gallery_view"
	EventImageView   = "image_view"
	EventDownload    = "download"
	EventFavorite    = "favorite"
)

type AnalyticsEvent struct {
	ID        uint
	ShootID   uint `db:"shoot_id"`
	ImageID   uint `db:"image_id"`
	ClientID  uint `db:"client_id"`
	Event     string
	CreatedAt time.Time
}

type ShootAnalytics struct {
	ShootID      uint `db:"shoot_id"`
	Title        string
	GalleryViews int `db:"gallery_views"`
	ImageViews   int `db:"image_views"`
	Downloads    int
	Favorites    int
}

func IsValidEvent(event string) bool {
	switch event {
	case EventGalleryView, EventImageView, EventDownload, EventFavorite:
		return true
	}

	return false
}
