package services

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/storage"
)

type ZipServiceConfig struct {
	BaseDownloadURL string
	EmailService    EmailServicer
	ExpirationDays  int
	ImageService    ImageServicer
	Store           storage.ObjectStore
}

type ZipServicer interface {
	CreateZipAsync(shoot *models.Shoot, client *models.Client) (string, error)
	CleanupExpiredZips() int
	StartCleanupRoutine(interval time.Duration)
	StopCleanupRoutine()
}

type ZipService struct {
	config        ZipServiceConfig
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	wg            *sync.WaitGroup
	now           func() time.Time
}

var (
	ErrInvalidZipName = fmt.Errorf("invalid download file name")
)

func NewZipService(config ZipServiceConfig) *ZipService {
	if config.ExpirationDays <= 0 {
		config.ExpirationDays = 7
	}

	return &ZipService{
		config:      config,
		stopCleanup: make(chan struct{}),
		wg:          &sync.WaitGroup{},
		now:         time.Now,
	}
}

/*
ZipFileName names a shoot's download archive. The shoot ID is always the last
hyphen-separated part, e.g. "smith-wedding-12.zip".
*/
func ZipFileName(shoot *models.Shoot) string {
	name := Slugify(shoot.Slug)

	if name == "" {
		name = Slugify(shoot.Title)
	}

	if name == "" {
		name = "shoot"
	}

	return fmt.Sprintf("%s-%d.zip", name, shoot.ID)
}

/*
ParseZipFileName returns the shoot ID encoded in an archive name made by
ZipFileName.
*/
func ParseZipFileName(fileName string) (uint, error) {
	fileName = path.Base(fileName)

	if !strings.HasSuffix(fileName, ".zip") {
		return 0, fmt.Errorf("%w: %s", ErrInvalidZipName, fileName)
	}

	parts := strings.Split(strings.TrimSuffix(fileName, ".zip"), "-")
	id, err := strconv.ParseUint(parts[len(parts)-1], 10, 64)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidZipName, fileName)
	}

	return uint(id), nil
}

func (s *ZipService) CreateZipAsync(shoot *models.Shoot, client *models.Client) (string, error) {
	zipFilename := ZipFileName(shoot)
	zipKey := storage.ShootKey(shoot.ID, storage.FolderDownloads, zipFilename)

	exists, stale, err := s.config.Store.IsStale(zipKey, shoot.UpdatedAt)

	if err == nil && exists && !stale {
		slog.Info("zip file already exists, sending email only", "zipKey", zipKey, "shootID", shoot.ID)

		if err = s.notify(shoot, client, zipFilename); err != nil {
			slog.Error("failed to send email notification", "error", err, "email", client.Email, "shootID", shoot.ID)
			return zipFilename, err
		}

		return zipFilename, nil
	}

	go s.processZip(zipKey, zipFilename, shoot, client)

	return zipFilename, nil
}

func (s *ZipService) processZip(zipKey, zipFilename string, shoot *models.Shoot, client *models.Client) {
	l := slog.With("shootID", shoot.ID, "zipKey", zipKey)
	l.Info("starting zip creation process")

	if err := s.writeZip(zipKey, shoot); err != nil {
		l.Error("zip creation failed", "error", err)
		return
	}

	l.Info("finished uploading zip file")

	if err := s.notify(shoot, client, zipFilename); err != nil {
		l.Error("failed to send email notification", "error", err, "email", client.Email)
		return
	}

	l.Info("zip creation completed successfully")
}

func (s *ZipService) writeZip(zipKey string, shoot *models.Shoot) error {
	images, err := s.config.ImageService.List(shoot.ID)

	if err != nil {
		return fmt.Errorf("error listing shoot images: %w", err)
	}

	writer, wait, err := s.config.Store.PutStream(zipKey, "application/zip")

	if err != nil {
		return fmt.Errorf("failed to setup upload stream: %w", err)
	}

	zipWriter := zip.NewWriter(writer)

	for _, image := range images {
		key := storage.ShootKey(shoot.ID, storage.FolderOriginals, image.FileName)

		if err = addToZip(zipWriter, s.config.Store, key); err != nil {
			slog.Error("failed to add image to zip", "error", err, "image", key)
			continue
		}
	}

	if err = zipWriter.Close(); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to close zip writer: %w", err)
	}

	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close upload stream: %w", err)
	}

	if err = wait(); err != nil {
		return fmt.Errorf("failed waiting for upload: %w", err)
	}

	return nil
}

func addToZip(zipWriter *zip.Writer, store storage.ObjectStore, key string) error {
	imageName := path.Base(key)

	src, err := store.Get(key)

	if err != nil {
		return fmt.Errorf("failed to get source file '%s': %w", key, err)
	}

	defer src.Body.Close()

	dest, err := zipWriter.Create(imageName)

	if err != nil {
		return fmt.Errorf("failed to create file '%s' in zip: %w", imageName, err)
	}

	if _, err := io.Copy(dest, src.Body); err != nil {
		return fmt.Errorf("failed to copy file '%s' to zip: %w", imageName, err)
	}

	return nil
}

func (s *ZipService) notify(shoot *models.Shoot, client *models.Client, zipFilename string) error {
	downloadURL := fmt.Sprintf("%s/client/downloads/%s", s.config.BaseDownloadURL, zipFilename)

	return s.config.EmailService.SendDownloadReady(client.Name, client.Email, map[string]any{
		"downloadURL":    downloadURL,
		"albumName":      shoot.Title,
		"expirationDays": s.config.ExpirationDays,
	})
}

func (s *ZipService) StartCleanupRoutine(interval time.Duration) {
	s.stopCleanup = make(chan struct{})
	s.cleanupTicker = time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case <-s.cleanupTicker.C:
				s.CleanupExpiredZips()
			case <-s.stopCleanup:
				s.cleanupTicker.Stop()
				return
			}
		}
	}()

	slog.Info("zip cleanup routine started", "interval", interval)
}

func (s *ZipService) StopCleanupRoutine() {
	if s.cleanupTicker != nil {
		close(s.stopCleanup)
		s.wg.Wait()
		s.cleanupTicker = nil
		slog.Info("zip cleanup routine stopped")
	}
}

/*
CleanupExpiredZips removes download archives older than the expiration period
and returns how many were removed.
*/
func (s *ZipService) CleanupExpiredZips() int {
	l := slog.With("function", "CleanupExpiredZips")
	l.Info("starting cleanup of expired zip files")

	cutoffTime := s.now().AddDate(0, 0, -s.config.ExpirationDays)
	removedCount := 0

	files, err := s.config.Store.List("shoots/", ".zip")

	if err != nil {
		l.Error("failed to list download archives", "error", err)
		return 0
	}

	for _, file := range files {
		if path.Base(path.Dir(file.Key)) != storage.FolderDownloads {
			continue
		}

		if !file.LastModified.Before(cutoffTime) {
			continue
		}

		l.Info("removing expired zip file", "path", file.Key, "modTime", file.LastModified)

		if err := s.config.Store.Delete(file.Key); err != nil {
			l.Error("failed to remove expired zip file", "error", err, "path", file.Key)
			continue
		}

		removedCount++
	}

	l.Info("completed cleanup of expired zip files", "removed", removedCount)
	return removedCount
}
