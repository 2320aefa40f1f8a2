package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ContactServicer interface {
	Submit(message *models.ContactMessage) error
	Recent(limit int) ([]models.ContactMessage, error)
}

type ContactServiceConfig struct {
	DB                *sqlz.DB
	EmailService      EmailServicer
	SiteConfigService SiteConfigServicer
}

type ContactService struct {
	db                *sqlz.DB
	emailService      EmailServicer
	siteConfigService SiteConfigServicer
}

func NewContactService(config ContactServiceConfig) ContactService {
	return ContactService{
		db:                config.DB,
		emailService:      config.EmailService,
		siteConfigService: config.SiteConfigService,
	}
}

/*
Submit validates and stores an inquiry from the contact page, then notifies
the studio. A failed notification is logged; the inquiry is still saved.
*/
func (s ContactService) Submit(message *models.ContactMessage) error {
	var (
		err error
	)

	message.Name = strings.TrimSpace(message.Name)
	message.Email = strings.TrimSpace(message.Email)
	message.Phone = strings.TrimSpace(message.Phone)
	message.EventDate = strings.TrimSpace(message.EventDate)
	message.Message = strings.TrimSpace(message.Message)

	if message.Name == "" {
		return fmt.Errorf("%w: please tell us your name", models.ErrInvalidContactMessage)
	}

	if _, err = mail.ParseAddress(message.Email); err != nil {
		return fmt.Errorf("%w: please provide a valid email address", models.ErrInvalidContactMessage)
	}

	if message.Message == "" {
		return fmt.Errorf("%w: please include a message", models.ErrInvalidContactMessage)
	}

	message.CreatedAt = time.Now().UTC()

	sql := `
INSERT INTO contact_messages (
   name
   , email
   , phone
   , event_date
   , message
   , created_at
) VALUES (?, ?, ?, ?, ?, ?)
`

	params := []any{
		message.Name,
		message.Email,
		message.Phone,
		message.EventDate,
		message.Message,
		message.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		return fmt.Errorf("error saving contact message from '%s': %w", message.Email, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		message.ID = uint(id)
	}

	s.notify(message)
	return nil
}

func (s ContactService) notify(message *models.ContactMessage) {
	to, err := s.siteConfigService.Get(ConfigContactEmail)

	if err != nil || to == "" {
		slog.Error("no contact email configured. inquiry not forwarded", "messageID", message.ID, "error", err)
		return
	}

	err = s.emailService.SendContactNotification(to, map[string]any{
		"name":      message.Name,
		"email":     message.Email,
		"phone":     message.Phone,
		"eventDate": message.EventDate,
		"message":   message.Message,
	})

	if err != nil {
		slog.Error("failed to send contact notification", "messageID", message.ID, "to", to, "error", err)
	}
}

func (s ContactService) Recent(limit int) ([]models.ContactMessage, error) {
	result := []models.ContactMessage{}

	sql := `
SELECT
   m.id
   , m.name
   , m.email
   , m.phone
   , m.event_date
   , m.message
   , m.created_at
FROM contact_messages AS m
ORDER BY m.created_at DESC, m.id DESC
LIMIT ?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, limit); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for contact messages: %w", err)
	}

	return result, nil
}

var _ ContactServicer = ContactService{}
