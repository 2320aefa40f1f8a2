package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/studiosite/cmd/website/internal/galleryview"
	"github.com/adampresley/studiosite/pkg/gallery"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/goccy/go-json"
)

const maxJsonBody = 1 << 20

type ApiControllerConfig struct {
	AnalyticsService  services.AnalyticsServicer
	AssetService      services.SimpleAssetServicer
	Builder           galleryview.Builder
	ImageService      services.ImageServicer
	MaxUploadBytes    int64
	ShootService      services.ShootServicer
	SiteConfigService services.SiteConfigServicer
}

/*
ApiController is the JSON surface used by the admin gallery customizer and
the public pages' scripts. Every error is reported as {"error": "..."}.
*/
type ApiController struct {
	analyticsService  services.AnalyticsServicer
	assetService      services.SimpleAssetServicer
	builder           galleryview.Builder
	imageService      services.ImageServicer
	maxUploadBytes    int64
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
}

func NewApiController(config ApiControllerConfig) ApiController {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 32 << 20
	}

	return ApiController{
		analyticsService:  config.AnalyticsService,
		assetService:      config.AssetService,
		builder:           config.Builder,
		imageService:      config.ImageService,
		maxUploadBytes:    config.MaxUploadBytes,
		shootService:      config.ShootService,
		siteConfigService: config.SiteConfigService,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type shootResponse struct {
	ID           uint             `json:"id"`
	ClientID     uint             `json:"clientId,omitempty"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Location     string           `json:"location"`
	VideoURL     string           `json:"videoUrl,omitempty"`
	ShootDate    string           `json:"shootDate"`
	IsPublic     bool             `json:"isPublic"`
	IsFeatured   bool             `json:"isFeatured"`
	Settings     gallery.Settings `json:"settings"`
	CoverImageID uint             `json:"coverImageId,omitempty"`
	CoverYPos    string           `json:"coverYPos"`
}

type imageResponse struct {
	ID           uint   `json:"id"`
	FileName     string `json:"fileName"`
	Caption      string `json:"caption,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Sequence     int    `json:"sequence"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Column       int    `json:"column"`
	Row          int    `json:"row"`
	IsCover      bool   `json:"isCover"`
}

type layoutResponse struct {
	Arrangement gallery.Arrangement `json:"arrangement"`
	Images      []imageResponse     `json:"images"`
}

type orderRequest struct {
	ImageIDs []uint `json:"imageIds"`
	From     *int   `json:"from"`
	To       *int   `json:"to"`
}

type coverRequest struct {
	ImageID uint   `json:"imageId"`
	YPos    string `json:"yPos"`
}

type dimensionsRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type assetResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	UpdatedAt   string `json:"updatedAt"`
}

type analyticsRequest struct {
	ShootID uint   `json:"shootId"`
	ImageID uint   `json:"imageId"`
	Event   string `json:"event"`
}

/*
GET /api/shoots/{id}
*/
func (c ApiController) GetShoot(w http.ResponseWriter, r *http.Request) {
	shoot, err := c.shootService.GetShoot(httphelpers.GetFromRequest[uint](r, "id"))

	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toShootResponse(shoot))
}

/*
GET /api/shoots/{id}/layout
*/
func (c ApiController) GetLayout(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		shoot  *models.Shoot
		images []models.Image
	)

	if shoot, err = c.shootService.GetShoot(httphelpers.GetFromRequest[uint](r, "id")); err != nil {
		c.writeError(w, err)
		return
	}

	if images, err = c.imageService.List(shoot.ID); err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, c.layout(shoot, images))
}

/*
PUT /api/shoots/{id}/gallery
*/
func (c ApiController) UpdateGallerySettings(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		settings gallery.Settings
		shoot    *models.Shoot
	)

	id := httphelpers.GetFromRequest[uint](r, "id")

	if shoot, err = c.shootService.GetShoot(id); err != nil {
		c.writeError(w, err)
		return
	}

	settings = services.GallerySettings(shoot)

	if !c.readJSON(w, r, &settings) {
		return
	}

	settings.BorderColor = strings.ToLower(strings.TrimSpace(settings.BorderColor))

	if err = c.shootService.UpdateGallerySettings(id, settings); err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, settings)
}

/*
PUT /api/shoots/{id}/images/order

Accepts either the full list of image IDs in their new order, or a single
drag from one position to another.
*/
func (c ApiController) ReorderImages(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request orderRequest
		images  []models.Image
		shoot   *models.Shoot
	)

	id := httphelpers.GetFromRequest[uint](r, "id")

	if shoot, err = c.shootService.GetShoot(id); err != nil {
		c.writeError(w, err)
		return
	}

	if !c.readJSON(w, r, &request) {
		return
	}

	switch {
	case request.ImageIDs != nil:
		images, err = c.imageService.Reorder(shoot.ID, request.ImageIDs)
	case request.From != nil && request.To != nil:
		images, err = c.imageService.Move(shoot.ID, *request.From, *request.To)
	default:
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "send either imageIds or from and to"})
		return
	}

	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, c.layout(shoot, images))
}

/*
PUT /api/shoots/{id}/cover
*/
func (c ApiController) SetCover(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request coverRequest
		shoot   *models.Shoot
	)

	id := httphelpers.GetFromRequest[uint](r, "id")

	if !c.readJSON(w, r, &request) {
		return
	}

	if err = c.shootService.SetCover(id, request.ImageID, request.YPos); err != nil {
		c.writeError(w, err)
		return
	}

	if shoot, err = c.shootService.GetShoot(id); err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toShootResponse(shoot))
}

/*
PUT /api/images/{id}/dimensions
*/
func (c ApiController) SetDimensions(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request dimensionsRequest
		image   *models.Image
	)

	id := httphelpers.GetFromRequest[uint](r, "id")

	if !c.readJSON(w, r, &request) {
		return
	}

	if err = c.imageService.SetDimensions(id, request.Width, request.Height); err != nil {
		c.writeError(w, err)
		return
	}

	if image, err = c.imageService.Get(id); err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, imageResponse{
		ID:       image.ID,
		FileName: image.FileName,
		Caption:  image.Caption,
		Width:    image.Width,
		Height:   image.Height,
		Sequence: image.Sequence,
	})
}

/*
GET /api/site-config
*/
func (c ApiController) GetSiteConfig(w http.ResponseWriter, r *http.Request) {
	site, err := c.siteConfigService.GetAll()

	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, site)
}

/*
PUT /api/site-config/bulk
*/
func (c ApiController) BulkUpdateSiteConfig(w http.ResponseWriter, r *http.Request) {
	values := map[string]string{}

	if !c.readJSON(w, r, &values) {
		return
	}

	if err := c.siteConfigService.BulkUpdate(values); err != nil {
		c.writeError(w, err)
		return
	}

	c.GetSiteConfig(w, r)
}

/*
GET /api/simple-assets/{key}
*/
func (c ApiController) GetAsset(w http.ResponseWriter, r *http.Request) {
	key := httphelpers.GetFromRequest[string](r, "key")
	asset, err := c.assetService.Get(key)

	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, c.toAssetResponse(asset))
}

/*
PUT /api/simple-assets/{key}?fileName=logo.png

The request body is the file itself.
*/
func (c ApiController) UploadAsset(w http.ResponseWriter, r *http.Request) {
	key := httphelpers.GetFromRequest[string](r, "key")
	fileName := httphelpers.GetFromRequest[string](r, "fileName")

	if fileName == "" {
		fileName = key
	}

	body := http.MaxBytesReader(w, r.Body, c.maxUploadBytes)
	defer body.Close()

	asset, err := c.assetService.Upload(key, fileName, r.Header.Get("Content-Type"), body)

	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, c.toAssetResponse(asset))
}

/*
POST /api/analytics

Visitors can only report views. Downloads and favorites are recorded by the
server when they happen.
*/
func (c ApiController) RecordAnalytics(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request analyticsRequest
		shoot   *models.Shoot
		image   *models.Image
	)

	if !c.readJSON(w, r, &request) {
		return
	}

	if request.Event != models.EventGalleryView && request.Event != models.EventImageView {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "only view events can be reported"})
		return
	}

	if shoot, err = c.shootService.GetShoot(request.ShootID); err != nil {
		c.writeError(w, err)
		return
	}

	// private shoots are only seen through the client portal
	if !shoot.IsPublic {
		c.writeError(w, fmt.Errorf("%w: %d", models.ErrShootNotFound, shoot.ID))
		return
	}

	if request.ImageID != 0 {
		if image, err = c.imageService.Get(request.ImageID); err != nil {
			c.writeError(w, err)
			return
		}

		if image.ShootID != shoot.ID {
			c.writeError(w, fmt.Errorf("%w: image %d is not part of shoot %d", models.ErrImageNotFound, image.ID, shoot.ID))
			return
		}
	}

	event := models.AnalyticsEvent{
		ShootID: shoot.ID,
		ImageID: request.ImageID,
		Event:   request.Event,
	}

	if err = c.analyticsService.Record(event); err != nil {
		c.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c ApiController) layout(shoot *models.Shoot, images []models.Image) layoutResponse {
	view := c.builder.Gallery(shoot, images, nil)
	settings := services.GallerySettings(shoot)

	result := layoutResponse{
		Arrangement: gallery.Arrange(services.GalleryItems(images), settings),
		Images:      make([]imageResponse, 0, len(view.Images)),
	}

	for _, image := range view.Images {
		result.Images = append(result.Images, imageResponse{
			ID:           image.ID,
			FileName:     image.FileName,
			Caption:      image.Caption,
			Width:        image.Width,
			Height:       image.Height,
			Sequence:     image.Sequence,
			ThumbnailURL: image.ThumbnailURL,
			Column:       image.Column,
			Row:          image.Row,
			IsCover:      image.IsCover,
		})
	}

	return result
}

func toShootResponse(shoot *models.Shoot) shootResponse {
	return shootResponse{
		ID:           shoot.ID,
		ClientID:     shoot.ClientID,
		Title:        shoot.Title,
		Slug:         shoot.Slug,
		Description:  shoot.Description,
		Category:     shoot.Category,
		Location:     shoot.Location,
		VideoURL:     shoot.VideoURL,
		ShootDate:    shoot.ShootDate.Format("2006-01-02"),
		IsPublic:     shoot.IsPublic,
		IsFeatured:   shoot.IsFeatured,
		Settings:     services.GallerySettings(shoot),
		CoverImageID: shoot.CoverImageID,
		CoverYPos:    shoot.CoverYPos,
	}
}

func (c ApiController) toAssetResponse(asset *models.SimpleAsset) assetResponse {
	u, err := c.assetService.URL(asset.Key)

	if err != nil {
		slog.Error("error getting asset URL", "key", asset.Key, "error", err)
	}

	return assetResponse{
		Key:         asset.Key,
		URL:         u,
		FileName:    asset.FileName,
		ContentType: asset.ContentType,
		Size:        asset.Size,
		UpdatedAt:   asset.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (c ApiController) readJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJsonBody))

	if err := decoder.Decode(dest); err != nil {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}

	return true
}

func (c ApiController) writeJSON(w http.ResponseWriter, status int, value any) {
	b, err := json.Marshal(value)

	if err != nil {
		slog.Error("error encoding JSON response", "error", err)
		status = http.StatusInternalServerError
		b = []byte(`{"error":"error encoding response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

/*
writeError maps service errors onto status codes.
*/
func (c ApiController) writeError(w http.ResponseWriter, err error) {
	status := StatusForError(err)

	if status == http.StatusInternalServerError {
		slog.Error("api request failed", "error", err)
		c.writeJSON(w, status, errorResponse{Error: "an unexpected error occurred"})
		return
	}

	c.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func StatusForError(err error) int {
	notFound := []error{
		models.ErrShootNotFound,
		models.ErrImageNotFound,
		models.ErrAssetNotFound,
		models.ErrClientNotFound,
		models.ErrProfileNotFound,
	}

	badRequest := []error{
		gallery.ErrInvalidLayout,
		gallery.ErrSpacingRange,
		gallery.ErrBorderRadiusRange,
		gallery.ErrBorderWidthRange,
		gallery.ErrInvalidBorderColor,
		gallery.ErrColumnsRange,
		gallery.ErrInvalidOrder,
		gallery.ErrIndexOutOfRange,
		services.ErrInvalidDimensions,
		models.ErrUnknownConfigKey,
		models.ErrInvalidAssetKey,
		models.ErrInvalidEvent,
		models.ErrInvalidShoot,
		services.ErrInvalidClient,
		services.ErrInvalidProfile,
		services.ErrWeakPassword,
	}

	conflict := []error{
		models.ErrSlugTaken,
		services.ErrAccessCodeUse,
		services.ErrEmailTaken,
	}

	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusInternalServerError
}
