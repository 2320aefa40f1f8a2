package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/studiosite/pkg/storage"
)

type MediaControllerConfig struct {
	Store storage.ObjectStore
}

/*
MediaController serves stored objects straight from the object store. It is
only routed when objects live in memory; S3 hands out its own URLs.
*/
type MediaController struct {
	store storage.ObjectStore
}

func NewMediaController(config MediaControllerConfig) MediaController {
	return MediaController{
		store: config.Store,
	}
}

/*
GET /media/{key...}
*/
func (c MediaController) ServeObject(w http.ResponseWriter, r *http.Request) {
	key := path.Clean(r.PathValue("key"))

	if key == "." || strings.HasPrefix(key, "..") || strings.HasPrefix(key, "/") {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid key")
		return
	}

	if _, folder, _, ok := storage.ParseShootKey(key); ok && folder == storage.FolderDownloads {
		httphelpers.WriteText(w, http.StatusNotFound, "not found")
		return
	}

	object, err := c.store.Get(key)

	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			slog.Error("error reading media object", "key", key, "error", err)
		}

		httphelpers.WriteText(w, http.StatusNotFound, "not found")
		return
	}

	defer object.Body.Close()

	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	w.Header().Set("Cache-Control", "public, max-age=3600")

	_, _ = io.Copy(w, object.Body)
}
