package models

import (
	"fmt"
	"time"
)

var (
	ErrUnknownConfigKey = fmt.Errorf("unknown site config key")
)

type SiteConfigEntry struct {
	Key       string `db:"config_key"`
	Value     string
	UpdatedAt time.Time
}

/*
SiteConfig is the flattened key/value view of every site setting, with
defaults filled in for keys that were never saved.
*/
type SiteConfig map[string]string

func (c SiteConfig) Get(key string) string {
	return c[key]
}
