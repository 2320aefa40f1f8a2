package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ClientServicer interface {
	Get(id uint) (*models.Client, error)
	GetAll() ([]models.Client, error)
	GetByPassword(password string) (*models.Client, error)
	Create(client *models.Client) error
}

type ClientServiceConfig struct {
	DB *sqlz.DB
}

type ClientService struct {
	db *sqlz.DB
}

var (
	ErrInvalidClient = fmt.Errorf("invalid client")
	ErrAccessCodeUse = fmt.Errorf("access code is already used by another client")
)

func NewClientService(config ClientServiceConfig) ClientService {
	return ClientService{
		db: config.DB,
	}
}

func (s ClientService) Get(id uint) (*models.Client, error) {
	var (
		err error
	)

	result := &models.Client{}

	sql := `
SELECT
   c.id
   , c.created_at
   , c.updated_at
   , c.deleted_at
   , c.password
   , c.name
   , c.email
FROM clients AS c
WHERE 1=1
   AND c.deleted_at IS NULL
   AND c.id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, id); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", models.ErrClientNotFound, id)
		}

		return nil, fmt.Errorf("error querying for client %d: %w", id, err)
	}

	return result, nil
}

func (s ClientService) GetAll() ([]models.Client, error) {
	var (
		err     error
		clients []models.Client
	)

	sql := `
SELECT
   c.id
   , c.created_at
   , c.updated_at
   , c.deleted_at
   , c.password
   , c.name
   , c.email
FROM clients AS c
WHERE 1=1
   AND c.deleted_at IS NULL
ORDER BY c.name
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &clients, sql); err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error querying for all clients: %w", err)
	}

	return clients, nil
}

/*
GetByPassword finds the client whose access code matches. A miss is reported
as models.ErrClientNotFound.
*/
func (s ClientService) GetByPassword(password string) (*models.Client, error) {
	var (
		err error
	)

	result := &models.Client{}

	sql := `
SELECT
   c.id
   , c.created_at
   , c.updated_at
   , c.deleted_at
   , c.password
   , c.name
   , c.email
FROM clients AS c
WHERE 1=1
   AND c.deleted_at IS NULL
   AND c.password=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, password); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, models.ErrClientNotFound
		}

		return nil, fmt.Errorf("error querying for client by password: %w", err)
	}

	return result, nil
}

func (s ClientService) Create(client *models.Client) error {
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.TrimSpace(client.Email)
	client.Password = strings.TrimSpace(client.Password)

	if client.Name == "" || client.Password == "" {
		return fmt.Errorf("%w: name and access code are required", ErrInvalidClient)
	}

	now := time.Now().UTC()

	sql := `
INSERT INTO clients (
   created_at
   , updated_at
   , password
   , name
   , email
) VALUES (?, ?, ?, ?, ?)
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, now, now, client.Password, client.Name, client.Email)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrAccessCodeUse
		}

		return fmt.Errorf("error inserting client '%s': %w", client.Name, err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return fmt.Errorf("error getting new client ID: %w", err)
	}

	client.ID = uint(id)
	client.CreatedAt = now
	client.UpdatedAt = now
	return nil
}

var _ ClientServicer = ClientService{}
