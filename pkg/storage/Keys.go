package storage

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	FolderOriginals  = "originals"
	FolderThumbnails = "thumbnails"
	FolderHeroBanner = "hero-banner"
	FolderDownloads  = "downloads"
)

/*
ShootKey builds the object key for a file in one of a shoot's folders, e.g.
shoots/12/originals/IMG_0001.jpg. Passing no name gives the folder prefix.
*/
func ShootKey(shootID uint, folder string, name ...string) string {
	parts := append([]string{"shoots", fmt.Sprint(shootID), folder}, name...)
	return path.Join(parts...)
}

func AssetKey(assetKey, fileName string) string {
	return path.Join("assets", assetKey, fileName)
}

/*
ParseShootKey splits a key made by ShootKey back into its parts. ok is false
for anything that is not a file inside a shoot folder.
*/
func ParseShootKey(key string) (shootID uint, folder, name string, ok bool) {
	parts := strings.Split(path.Clean(key), "/")

	if len(parts) != 4 || parts[0] != "shoots" || parts[3] == "" || parts[3] == ".." {
		return 0, "", "", false
	}

	id, err := strconv.ParseUint(parts[1], 10, 64)

	if err != nil || id == 0 {
		return 0, "", "", false
	}

	return uint(id), parts[2], parts[3], true
}
