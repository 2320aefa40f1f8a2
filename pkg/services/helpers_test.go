package services_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/adampresley/studiosite/pkg/database"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/rfberaldo/sqlz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlz.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

func createShoot(t *testing.T, db *sqlz.DB, shoot *models.Shoot) *models.Shoot {
	t.Helper()

	service := services.NewShootService(services.ShootServiceConfig{DB: db})
	require.NoError(t, service.Create(shoot))
	return shoot
}

func addImages(t *testing.T, db *sqlz.DB, shootID uint, count int) []*models.Image {
	t.Helper()

	service := services.NewImageService(services.ImageServiceConfig{DB: db})
	result := make([]*models.Image, 0, count)

	for i := range count {
		image, err := service.Add(shootID, "IMG_"+string(rune('A'+i))+".jpg", 3000, 2000)
		require.NoError(t, err)
		result = append(result, image)
	}

	return result
}

type sentMail struct {
	Kind string
	To   string
	Name string
	Data map[string]any
}

type recordingMailer struct {
	mu   sync.Mutex
	Sent []sentMail
	Err  error
}

func (m *recordingMailer) SendDownloadReady(toName, toEmail string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, sentMail{Kind: "download", To: toEmail, Name: toName, Data: data})
	return m.Err
}

func (m *recordingMailer) SendContactNotification(toEmail string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, sentMail{Kind: "contact", To: toEmail, Data: data})
	return m.Err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Sent)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Summer Wedding", want: "summer-wedding"},
		{name: "symbols", input: "Smith & Jones  Wedding!", want: "smith-jones-wedding"},
		{name: "trims", input: "  --Hello--  ", want: "hello"},
		{name: "empty", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.Slugify(tt.input))
		})
	}
}
