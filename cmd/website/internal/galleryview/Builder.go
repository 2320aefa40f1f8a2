package galleryview

import (
	"log/slog"

	"github.com/adampresley/adamgokit/slices"
	internalmodels "github.com/adampresley/studiosite/cmd/website/internal/models"
	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/adampresley/studiosite/pkg/storage"
)

type BuilderConfig struct {
	Store storage.ObjectStore
}

/*
Builder turns shoot and image rows into the view models the templates and the
JSON API render, resolving object URLs along the way.
*/
type Builder struct {
	store storage.ObjectStore
}

func NewBuilder(config BuilderConfig) Builder {
	return Builder{
		store: config.Store,
	}
}

func (b Builder) Card(shoot *models.Shoot) internalmodels.ShootCard {
	result := internalmodels.ShootCard{
		ID:         shoot.ID,
		Title:      shoot.Title,
		Slug:       shoot.Slug,
		Category:   shoot.Category,
		Location:   shoot.Location,
		ShootDate:  shoot.ShootDate.Format("Jan _2, 2006"),
		CoverYPos:  gallery.NormalizeYPos(shoot.CoverYPos),
		IsPublic:   shoot.IsPublic,
		IsFeatured: shoot.IsFeatured,
		Client: internalmodels.Client{
			ID:    shoot.ClientID,
			Name:  shoot.Client.Name,
			Email: shoot.Client.Email,
		},
	}

	if shoot.CoverFile != "" {
		result.CoverURL = b.url(storage.ShootKey(shoot.ID, storage.FolderThumbnails, shoot.CoverFile))
	}

	return result
}

func (b Builder) Cards(shoots []*models.Shoot) []internalmodels.ShootCard {
	return slices.Map(shoots, func(shoot *models.Shoot, index int) internalmodels.ShootCard {
		return b.Card(shoot)
	})
}

/*
Gallery arranges a shoot's images with its saved settings. favorites may be
nil for visitors who are not signed in.
*/
func (b Builder) Gallery(shoot *models.Shoot, images []models.Image, favorites []models.Favorite) internalmodels.Gallery {
	settings := services.GallerySettings(shoot)
	items := services.GalleryItems(images)
	arrangement := gallery.Arrange(items, settings)
	coverID := gallery.ResolveCover(items, shoot.CoverImageID)

	favoriteIDs := slices.Map(favorites, func(favorite models.Favorite, index int) uint {
		return favorite.ImageID
	})

	byID := map[uint]models.Image{}

	for _, image := range images {
		byID[image.ID] = image
	}

	result := internalmodels.Gallery{
		ShootID:      shoot.ID,
		Title:        shoot.Title,
		Description:  shoot.Description,
		VideoURL:     shoot.VideoURL,
		HeroYPos:     gallery.NormalizeYPos(shoot.CoverYPos),
		Layout:       string(arrangement.Layout),
		Columns:      arrangement.Columns,
		Settings:     settings,
		Style:        arrangement.Style,
		Ratio:        arrangement.Aspect.Ratio,
		Images:       []internalmodels.Image{},
		ImageColumns: [][]internalmodels.Image{},
		ImageRows:    [][]internalmodels.Image{},
	}

	convert := func(cell gallery.Cell) internalmodels.Image {
		image := byID[cell.ItemID]
		originalKey := storage.ShootKey(shoot.ID, storage.FolderOriginals, image.FileName)

		return internalmodels.Image{
			ID:           image.ID,
			ShootID:      shoot.ID,
			FileName:     image.FileName,
			Caption:      image.Caption,
			ThumbnailURL: b.url(storage.ShootKey(shoot.ID, storage.FolderThumbnails, image.FileName)),
			OriginalURL:  b.url(originalKey),
			OriginalKey:  originalKey,
			Width:        image.Width,
			Height:       image.Height,
			Sequence:     image.Sequence,
			Column:       cell.Column,
			Row:          cell.Row,
			IsFavorite:   slices.IsInSlice(image.ID, favoriteIDs),
			IsCover:      image.ID == coverID,
		}
	}

	for _, cell := range arrangement.Cells {
		converted := convert(cell)
		result.Images = append(result.Images, converted)

		if converted.IsCover {
			result.HeroURL = b.url(storage.ShootKey(shoot.ID, storage.FolderHeroBanner, converted.FileName))
		}
	}

	for _, column := range arrangement.ByColumn() {
		result.ImageColumns = append(result.ImageColumns, slices.Map(column, func(cell gallery.Cell, index int) internalmodels.Image {
			return convert(cell)
		}))
	}

	for _, row := range arrangement.ByRow() {
		result.ImageRows = append(result.ImageRows, slices.Map(row, func(cell gallery.Cell, index int) internalmodels.Image {
			return convert(cell)
		}))
	}

	return result
}

func (b Builder) url(key string) string {
	u, err := b.store.URL(key)

	if err != nil {
		slog.Error("error getting object URL", "key", key, "error", err)
		return ""
	}

	return u
}
