package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type SiteConfigServicer interface {
	Fields() []ConfigField
	GetAll() (models.SiteConfig, error)
	Get(key string) (string, error)
	BulkUpdate(values map[string]string) error
}

type SiteConfigServiceConfig struct {
	DB *sqlz.DB
}

type SiteConfigService struct {
	db *sqlz.DB
}

/*
ConfigField describes one editable setting for the admin settings form.
*/
type ConfigField struct {
	Key       string
	Label     string
	Group     string
	Default   string
	Multiline bool
}

const (
	ConfigSiteName       = "site.name"
	ConfigSiteTagline    = "site.tagline"
	ConfigSeoTitle       = "seo.title"
	ConfigSeoDescription = "seo.description"
	ConfigHomeHeadline   = "home.headline"
	ConfigHomeIntro      = "home.intro"
	ConfigPhotoIntro     = "photography.intro"
	ConfigVideoIntro     = "videography.intro"
	ConfigContactEmail   = "contact.email"
	ConfigContactPhone   = "contact.phone"
	ConfigContactAddress = "contact.address"
	ConfigContactIntro   = "contact.intro"
	ConfigContactSuccess = "contact.success"
	ConfigSocialInsta    = "social.instagram"
	ConfigSocialFacebook = "social.facebook"
	ConfigSocialVimeo    = "social.vimeo"
)

var configFields = []ConfigField{
	{Key: ConfigSiteName, Label: "Site name", Group: "Site", Default: "Studio"},
	{Key: ConfigSiteTagline, Label: "Tagline", Group: "Site", Default: "Photography & Videography"},
	{Key: ConfigSeoTitle, Label: "Default page title", Group: "SEO", Default: "Studio | Photography & Videography"},
	{Key: ConfigSeoDescription, Label: "Meta description", Group: "SEO", Default: "Wedding, portrait and event photography and videography.", Multiline: true},
	{Key: ConfigHomeHeadline, Label: "Headline", Group: "Home", Default: "Stories worth keeping"},
	{Key: ConfigHomeIntro, Label: "Introduction", Group: "Home", Default: "We photograph and film the moments you will want to live again.", Multiline: true},
	{Key: ConfigPhotoIntro, Label: "Photography introduction", Group: "Categories", Default: "A selection of recent photography work.", Multiline: true},
	{Key: ConfigVideoIntro, Label: "Videography introduction", Group: "Categories", Default: "A selection of recent films.", Multiline: true},
	{Key: ConfigContactEmail, Label: "Email", Group: "Contact", Default: "hello@example.com"},
	{Key: ConfigContactPhone, Label: "Phone", Group: "Contact", Default: ""},
	{Key: ConfigContactAddress, Label: "Address", Group: "Contact", Default: "", Multiline: true},
	{Key: ConfigContactIntro, Label: "Introduction", Group: "Contact", Default: "Tell us about your day and we will be in touch.", Multiline: true},
	{Key: ConfigContactSuccess, Label: "Thank you message", Group: "Contact", Default: "Thanks! We will get back to you within two business days."},
	{Key: ConfigSocialInsta, Label: "Instagram URL", Group: "Social", Default: ""},
	{Key: ConfigSocialFacebook, Label: "Facebook URL", Group: "Social", Default: ""},
	{Key: ConfigSocialVimeo, Label: "Vimeo URL", Group: "Social", Default: ""},
}

func NewSiteConfigService(config SiteConfigServiceConfig) SiteConfigService {
	return SiteConfigService{
		db: config.DB,
	}
}

func (s SiteConfigService) Fields() []ConfigField {
	result := make([]ConfigField, len(configFields))
	copy(result, configFields)
	return result
}

func isKnownConfigKey(key string) bool {
	for _, field := range configFields {
		if field.Key == key {
			return true
		}
	}

	return false
}

/*
GetAll returns every known setting. Saved values win over defaults.
*/
func (s SiteConfigService) GetAll() (models.SiteConfig, error) {
	var (
		err     error
		entries []models.SiteConfigEntry
	)

	result := models.SiteConfig{}

	for _, field := range configFields {
		result[field.Key] = field.Default
	}

	sql := `
SELECT
   sc.config_key
   , sc.value
   , sc.updated_at
FROM site_config AS sc
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &entries, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for site config: %w", err)
	}

	for _, entry := range entries {
		if isKnownConfigKey(entry.Key) {
			result[entry.Key] = entry.Value
		}
	}

	return result, nil
}

func (s SiteConfigService) Get(key string) (string, error) {
	if !isKnownConfigKey(key) {
		return "", fmt.Errorf("%w: '%s'", models.ErrUnknownConfigKey, key)
	}

	all, err := s.GetAll()

	if err != nil {
		return "", err
	}

	return all[key], nil
}

/*
BulkUpdate saves many settings at once. If any key is unknown nothing is
saved.
*/
func (s SiteConfigService) BulkUpdate(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	rows := make([]string, 0, len(values))
	params := make([]any, 0, len(values)*3)
	now := time.Now().UTC()

	for _, field := range configFields {
		value, ok := values[field.Key]

		if !ok {
			continue
		}

		rows = append(rows, "(?, ?, ?)")
		params = append(params, field.Key, strings.TrimSpace(value), now)
	}

	if len(rows) != len(values) {
		for key := range values {
			if !isKnownConfigKey(key) {
				return fmt.Errorf("%w: '%s'", models.ErrUnknownConfigKey, key)
			}
		}
	}

	sql := `
INSERT INTO site_config (
   config_key
   , value
   , updated_at
) VALUES ` + strings.Join(rows, ", ") + `
ON CONFLICT (config_key) DO UPDATE SET
   value=excluded.value
   , updated_at=excluded.updated_at
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving %d site config values: %w", len(rows), err)
	}

	return nil
}

var _ SiteConfigServicer = SiteConfigService{}
