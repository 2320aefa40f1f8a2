package models

import (
	"fmt"
	"time"
)

var (
	ErrImageNotFound = fmt.Errorf("image not found")
)

type Image struct {
	ID        uint
	CreatedAt time.Time
	ShootID   uint `db:"shoot_id"`
	FileName  string
	Width     int
	Height    int
	Sequence  int
	Caption   string
}
