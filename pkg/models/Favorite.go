package models

type Favorite struct {
	ClientID uint `db:"client_id"`
	ShootID  uint `db:"shoot_id"`
	ImageID  uint `db:"image_id"`
}
