/*
Package seed loads a studio's starting content from a YAML file: site copy,
staff, clients, and shoots. Applying the same file twice does not create
duplicates.
*/
package seed

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"gopkg.in/yaml.v3"
)

type File struct {
	SiteConfig map[string]string `yaml:"siteConfig"`
	Staff      []Staff           `yaml:"staff"`
	Clients    []Client          `yaml:"clients"`
	Shoots     []Shoot           `yaml:"shoots"`
}

type Staff struct {
	Email      string `yaml:"email"`
	Name       string `yaml:"name"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	Title      string `yaml:"title"`
	Bio        string `yaml:"bio"`
	ShowOnSite bool   `yaml:"showOnSite"`
	SortOrder  int    `yaml:"sortOrder"`
}

type Client struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	AccessCode string `yaml:"accessCode"`
}

/*
Shoot refers to its client by access code. Images name originals that are
already in the bucket; their sizes are optional since the cache job fills
them in.
*/
type Shoot struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Category    string    `yaml:"category"`
	Description string    `yaml:"description"`
	Location    string    `yaml:"location"`
	VideoURL    string    `yaml:"videoUrl"`
	Date        string    `yaml:"date"`
	Client      string    `yaml:"client"`
	Public      bool      `yaml:"public"`
	Featured    bool      `yaml:"featured"`
	Gallery     *Settings `yaml:"gallery"`
	Images      []Image   `yaml:"images"`
}

type Settings struct {
	Layout       string `yaml:"layout"`
	Spacing      *int   `yaml:"spacing"`
	BorderRadius int    `yaml:"borderRadius"`
	BorderWidth  int    `yaml:"borderWidth"`
	BorderColor  string `yaml:"borderColor"`
	Columns      int    `yaml:"columns"`
}

type Image struct {
	File   string `yaml:"file"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

/*
Result counts what Apply created. Rows that already existed are skipped.
*/
type Result struct {
	SiteConfigKeys int
	Staff          int
	Clients        int
	Shoots         int
	Images         int
	Skipped        int
}

type SeederConfig struct {
	ClientService     services.ClientServicer
	ImageService      services.ImageServicer
	ProfileService    services.ProfileServicer
	ShootService      services.ShootServicer
	SiteConfigService services.SiteConfigServicer
}

type Seeder struct {
	clientService     services.ClientServicer
	imageService      services.ImageServicer
	profileService    services.ProfileServicer
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
}

func NewSeeder(config SeederConfig) Seeder {
	return Seeder{
		clientService:     config.ClientService,
		imageService:      config.ImageService,
		profileService:    config.ProfileService,
		shootService:      config.ShootService,
		siteConfigService: config.SiteConfigService,
	}
}

/*
Parse reads a seed file. Unknown fields are an error so typos don't go
unnoticed.
*/
func Parse(r io.Reader) (File, error) {
	result := File{}

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		return result, fmt.Errorf("error parsing seed file: %w", err)
	}

	return result, nil
}

func (s Seeder) Apply(file File) (Result, error) {
	var (
		err    error
		result Result
	)

	if len(file.SiteConfig) > 0 {
		if err = s.siteConfigService.BulkUpdate(file.SiteConfig); err != nil {
			return result, err
		}

		result.SiteConfigKeys = len(file.SiteConfig)
	}

	for _, staff := range file.Staff {
		if err = s.applyStaff(staff, &result); err != nil {
			return result, err
		}
	}

	for _, client := range file.Clients {
		if err = s.applyClient(client, &result); err != nil {
			return result, err
		}
	}

	for _, shoot := range file.Shoots {
		if err = s.applyShoot(shoot, &result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s Seeder) applyStaff(staff Staff, result *Result) error {
	_, err := s.profileService.GetByEmail(staff.Email)

	if err == nil {
		slog.Debug("staff already exists", "email", staff.Email)
		result.Skipped++
		return nil
	}

	if !errors.Is(err, models.ErrProfileNotFound) {
		return err
	}

	profile := &models.Profile{
		Email:      staff.Email,
		Name:       staff.Name,
		Role:       staff.Role,
		Title:      staff.Title,
		Bio:        staff.Bio,
		ShowOnSite: staff.ShowOnSite,
		SortOrder:  staff.SortOrder,
	}

	if err = s.profileService.Create(profile, staff.Password); err != nil {
		return fmt.Errorf("error creating staff '%s': %w", staff.Email, err)
	}

	result.Staff++
	return nil
}

func (s Seeder) applyClient(client Client, result *Result) error {
	_, err := s.clientService.GetByPassword(client.AccessCode)

	if err == nil {
		slog.Debug("client already exists", "name", client.Name)
		result.Skipped++
		return nil
	}

	if !errors.Is(err, models.ErrClientNotFound) {
		return err
	}

	newClient := &models.Client{
		Name:     client.Name,
		Email:    client.Email,
		Password: client.AccessCode,
	}

	if err = s.clientService.Create(newClient); err != nil {
		return fmt.Errorf("error creating client '%s': %w", client.Name, err)
	}

	result.Clients++
	return nil
}

func (s Seeder) applyShoot(seedShoot Shoot, result *Result) error {
	var (
		err   error
		owner *models.Client
	)

	shoot := &models.Shoot{
		Title:       seedShoot.Title,
		Slug:        services.Slugify(seedShoot.Slug),
		Category:    seedShoot.Category,
		Description: seedShoot.Description,
		Location:    seedShoot.Location,
		VideoURL:    seedShoot.VideoURL,
		IsPublic:    seedShoot.Public,
		IsFeatured:  seedShoot.Featured,
	}

	if shoot.Slug == "" {
		shoot.Slug = services.Slugify(seedShoot.Title)
	}

	if _, err = s.shootService.GetShootBySlug(shoot.Slug); err == nil {
		slog.Debug("shoot already exists", "slug", shoot.Slug)
		result.Skipped++
		return nil
	}

	if !errors.Is(err, models.ErrShootNotFound) {
		return err
	}

	if seedShoot.Date != "" {
		if shoot.ShootDate, err = time.Parse("2006-01-02", seedShoot.Date); err != nil {
			return fmt.Errorf("shoot '%s' has an invalid date '%s': %w", seedShoot.Title, seedShoot.Date, err)
		}
	}

	if seedShoot.Client != "" {
		if owner, err = s.clientService.GetByPassword(seedShoot.Client); err != nil {
			return fmt.Errorf("shoot '%s' refers to an unknown client: %w", seedShoot.Title, err)
		}

		shoot.ClientID = owner.ID
	}

	if err = s.shootService.Create(shoot); err != nil {
		return fmt.Errorf("error creating shoot '%s': %w", seedShoot.Title, err)
	}

	result.Shoots++

	if seedShoot.Gallery != nil {
		if err = s.shootService.UpdateGallerySettings(shoot.ID, seedShoot.Gallery.toSettings()); err != nil {
			return fmt.Errorf("shoot '%s' has invalid gallery settings: %w", seedShoot.Title, err)
		}
	}

	for _, image := range seedShoot.Images {
		if _, err = s.imageService.Add(shoot.ID, image.File, image.Width, image.Height); err != nil {
			return fmt.Errorf("error adding image '%s' to shoot '%s': %w", image.File, seedShoot.Title, err)
		}

		result.Images++
	}

	return nil
}

/*
toSettings starts from the defaults so a seed file only has to mention what
it changes.
*/
func (s Settings) toSettings() gallery.Settings {
	result := gallery.DefaultSettings()

	if s.Layout != "" {
		result.Layout = gallery.Layout(s.Layout)
	}

	if s.Spacing != nil {
		result.Spacing = *s.Spacing
	}

	if s.BorderColor != "" {
		result.BorderColor = s.BorderColor
	}

	if s.Columns != 0 {
		result.Columns = s.Columns
	}

	result.BorderRadius = s.BorderRadius
	result.BorderWidth = s.BorderWidth
	return result
}
