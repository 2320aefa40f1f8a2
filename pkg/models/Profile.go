package models

import "fmt"

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrProfileNotFound    = fmt.Errorf("profile not found")
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

/*
Profile is a member of the studio. Admin profiles can sign in to the
back-office; staff profiles flagged ShowOnSite are listed on the home page.
*/
type Profile struct {
	BaseModel

	Email         string
	Name          string
	PasswordHash  string `db:"password_hash"`
	Role          string
	Title         string
	Bio           string
	PhotoAssetKey string `db:"photo_asset_key"`
	ShowOnSite    bool   `db:"show_on_site"`
	SortOrder     int    `db:"sort_order"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
