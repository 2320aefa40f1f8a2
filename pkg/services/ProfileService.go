package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
	"golang.org/x/crypto/bcrypt"
)

type ProfileServicer interface {
	Authenticate(email, password string) (*models.Profile, error)
	Create(profile *models.Profile, password string) error
	Get(id uint) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	ListAll() ([]models.Profile, error)
	ListVisible() ([]models.Profile, error)
	Update(profile *models.Profile) error
	SetPassword(id uint, password string) error
}

type ProfileServiceConfig struct {
	DB         *sqlz.DB
	BcryptCost int
}

type ProfileService struct {
	db         *sqlz.DB
	bcryptCost int
}

var (
	ErrInvalidProfile = fmt.Errorf("invalid profile")
	ErrWeakPassword   = fmt.Errorf("password must be at least 8 characters")
	ErrEmailTaken     = fmt.Errorf("email is already used by another profile")
)

const profileColumns = `
   p.id
   , p.created_at
   , p.updated_at
   , p.deleted_at
   , p.email
   , p.name
   , p.password_hash
   , p.role
   , p.title
   , p.bio
   , p.photo_asset_key
   , p.show_on_site
   , p.sort_order
`

func NewProfileService(config ProfileServiceConfig) ProfileService {
	if config.BcryptCost == 0 {
		config.BcryptCost = 12
	}

	return ProfileService{
		db:         config.DB,
		bcryptCost: config.BcryptCost,
	}
}

/*
Authenticate returns the admin profile matching email and password. Unknown
emails, wrong passwords, and non-admin profiles all produce
models.ErrInvalidCredentials.
*/
func (s ProfileService) Authenticate(email, password string) (*models.Profile, error) {
	var (
		err     error
		profile *models.Profile
	)

	if profile, err = s.GetByEmail(email); err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return nil, models.ErrInvalidCredentials
		}

		return nil, err
	}

	if !profile.IsAdmin() || profile.PasswordHash == "" {
		return nil, models.ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return profile, nil
}

/*
Create inserts a profile. An empty password is allowed for staff profiles that
never sign in.
*/
func (s ProfileService) Create(profile *models.Profile, password string) error {
	var (
		err  error
		hash string
	)

	if err = s.prepare(profile); err != nil {
		return err
	}

	if password != "" || profile.Role == models.RoleAdmin {
		if hash, err = s.hash(password); err != nil {
			return err
		}
	}

	profile.PasswordHash = hash
	now := time.Now().UTC()

	sql := `
INSERT INTO profiles (
   created_at
   , updated_at
   , email
   , name
   , password_hash
   , role
   , title
   , bio
   , photo_asset_key
   , show_on_site
   , sort_order
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		now,
		now,
		profile.Email,
		profile.Name,
		profile.PasswordHash,
		profile.Role,
		profile.Title,
		profile.Bio,
		profile.PhotoAssetKey,
		profile.ShowOnSite,
		profile.SortOrder,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: '%s'", ErrEmailTaken, profile.Email)
		}

		return fmt.Errorf("error inserting profile '%s': %w", profile.Email, err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return fmt.Errorf("error getting new profile ID: %w", err)
	}

	profile.ID = uint(id)
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (s ProfileService) Get(id uint) (*models.Profile, error) {
	sql := `
SELECT ` + profileColumns + `
FROM profiles AS p
WHERE 1=1
   AND p.deleted_at IS NULL
   AND p.id=?
`

	return s.queryOne(sql, id)
}

func (s ProfileService) GetByEmail(email string) (*models.Profile, error) {
	sql := `
SELECT ` + profileColumns + `
FROM profiles AS p
WHERE 1=1
   AND p.deleted_at IS NULL
   AND p.email=?
`

	return s.queryOne(sql, strings.ToLower(strings.TrimSpace(email)))
}

func (s ProfileService) ListAll() ([]models.Profile, error) {
	sql := `
SELECT ` + profileColumns + `
FROM profiles AS p
WHERE 1=1
   AND p.deleted_at IS NULL
ORDER BY p.sort_order, p.name
`

	return s.queryMany(sql)
}

/*
ListVisible returns the staff shown on the public site, in display order.
*/
func (s ProfileService) ListVisible() ([]models.Profile, error) {
	sql := `
SELECT ` + profileColumns + `
FROM profiles AS p
WHERE 1=1
   AND p.deleted_at IS NULL
   AND p.show_on_site=1
ORDER BY p.sort_order, p.name
`

	return s.queryMany(sql)
}

func (s ProfileService) Update(profile *models.Profile) error {
	var (
		err error
	)

	if err = s.prepare(profile); err != nil {
		return err
	}

	sql := `
UPDATE profiles SET
   updated_at=?
   , email=?
   , name=?
   , role=?
   , title=?
   , bio=?
   , photo_asset_key=?
   , show_on_site=?
   , sort_order=?
WHERE 1=1
   AND id=?
   AND deleted_at IS NULL
`

	params := []any{
		time.Now().UTC(),
		profile.Email,
		profile.Name,
		profile.Role,
		profile.Title,
		profile.Bio,
		profile.PhotoAssetKey,
		profile.ShowOnSite,
		profile.SortOrder,
		profile.ID,
	}

	return s.execOne(sql, profile.ID, params...)
}

func (s ProfileService) SetPassword(id uint, password string) error {
	hash, err := s.hash(password)

	if err != nil {
		return err
	}

	sql := `
UPDATE profiles SET
   updated_at=?
   , password_hash=?
WHERE 1=1
   AND id=?
   AND deleted_at IS NULL
`

	return s.execOne(sql, id, time.Now().UTC(), hash, id)
}

func (s ProfileService) prepare(profile *models.Profile) error {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	profile.Name = strings.TrimSpace(profile.Name)

	if profile.Email == "" || profile.Name == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidProfile)
	}

	if profile.Role == "" {
		profile.Role = models.RoleStaff
	}

	if profile.Role != models.RoleAdmin && profile.Role != models.RoleStaff {
		return fmt.Errorf("%w: unknown role '%s'", ErrInvalidProfile, profile.Role)
	}

	return nil
}

func (s ProfileService) hash(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)

	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(b), nil
}

func (s ProfileService) queryOne(sql string, params ...any) (*models.Profile, error) {
	result := &models.Profile{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.QueryRow(ctx, result, sql, params...); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrProfileNotFound, params)
		}

		return nil, fmt.Errorf("error querying for profile %v: %w", params, err)
	}

	return result, nil
}

func (s ProfileService) queryMany(sql string, params ...any) ([]models.Profile, error) {
	result := []models.Profile{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, params...); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for profiles: %w", err)
	}

	return result, nil
}

func (s ProfileService) execOne(sql string, id uint, params ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}

		return fmt.Errorf("error updating profile %d: %w", id, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %d", models.ErrProfileNotFound, id)
	}

	return nil
}

var _ ProfileServicer = ProfileService{}
