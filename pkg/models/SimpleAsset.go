package models

import (
	"fmt"
	"time"
)

var (
	ErrAssetNotFound   = fmt.Errorf("asset not found")
	ErrInvalidAssetKey = fmt.Errorf("invalid asset key")
)

type SimpleAsset struct {
	Key         string `db:"asset_key"`
	ObjectKey   string `db:"object_key"`
	FileName    string `db:"file_name"`
	ContentType string `db:"content_type"`
	Size        int64
	UpdatedAt   time.Time
}
