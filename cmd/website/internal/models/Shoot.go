package models

import "github.com/adampresley/studiosite/pkg/gallery"

type Client struct {
	ID    uint
	Name  string
	Email string
}

/*
ShootCard is a shoot as shown in listings: the portfolio pages, the client
library, and the admin shoot list.
*/
type ShootCard struct {
	ID         uint
	Title      string
	Slug       string
	Category   string
	Location   string
	ShootDate  string
	CoverURL   string
	CoverYPos  string
	IsPublic   bool
	IsFeatured bool
	Client     Client
}

/*
Gallery is a shoot's images arranged for display. Masonry galleries render
ImageColumns, grid galleries render ImageRows.
*/
type Gallery struct {
	ShootID      uint
	Title        string
	Description  string
	VideoURL     string
	HeroURL      string
	HeroYPos     string
	Layout       string
	Columns      int
	Settings     gallery.Settings
	Style        gallery.Style
	Ratio        gallery.Ratio
	Images       []Image
	ImageColumns [][]Image
	ImageRows    [][]Image
}

func (g Gallery) IsGrid() bool {
	return g.Layout == string(gallery.LayoutGrid)
}

type Image struct {
	ID           uint
	ShootID      uint
	FileName     string
	Caption      string
	ThumbnailURL string
	OriginalURL  string
	OriginalKey  string
	Width        int
	Height       int
	Sequence     int
	Column       int
	Row          int
	IsFavorite   bool
	IsCover      bool
}

type StaffMember struct {
	ID       uint
	Name     string
	Title    string
	Bio      string
	PhotoURL string
}
