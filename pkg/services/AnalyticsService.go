package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/studiosite/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type AnalyticsServicer interface {
	Record(event models.AnalyticsEvent) error
	SummaryByShoot() ([]models.ShootAnalytics, error)
	Recent(limit int) ([]models.AnalyticsEvent, error)
}

type AnalyticsServiceConfig struct {
	DB *sqlz.DB
}

type AnalyticsService struct {
	db *sqlz.DB
}

func NewAnalyticsService(config AnalyticsServiceConfig) AnalyticsService {
	return AnalyticsService{
		db: config.DB,
	}
}

func (s AnalyticsService) Record(event models.AnalyticsEvent) error {
	if !models.IsValidEvent(event.Event) || event.ShootID == 0 {
		return fmt.Errorf("%w: '%s' for shoot %d", models.ErrInvalidEvent, event.Event, event.ShootID)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	sql := `
INSERT INTO analytics_events (
   shoot_id
   , image_id
   , client_id
   , event
   , created_at
) VALUES (?, ?, ?, ?, ?)
`

	params := []any{
		event.ShootID,
		event.ImageID,
		event.ClientID,
		event.Event,
		event.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error recording %s event for shoot %d: %w", event.Event, event.ShootID, err)
	}

	return nil
}

/*
SummaryByShoot counts events per shoot, busiest galleries first. Shoots with
no events are included with zero counts.
*/
func (s AnalyticsService) SummaryByShoot() ([]models.ShootAnalytics, error) {
	result := []models.ShootAnalytics{}

	sql := `
SELECT
   s.id AS shoot_id
   , s.title
   , COALESCE(SUM(CASE WHEN e.event='gallery_view' THEN 1 ELSE 0 END), 0) AS gallery_views
   , COALESCE(SUM(CASE WHEN e.event='image_view' THEN 1 ELSE 0 END), 0) AS image_views
   , COALESCE(SUM(CASE WHEN e.event='download' THEN 1 ELSE 0 END), 0) AS downloads
   , COALESCE(SUM(CASE WHEN e.event='favorite' THEN 1 ELSE 0 END), 0) AS favorites
FROM shoots AS s
   LEFT JOIN analytics_events AS e ON e.shoot_id=s.id
WHERE 1=1
   AND s.deleted_at IS NULL
GROUP BY s.id, s.title
ORDER BY gallery_views DESC, s.title
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for analytics summary: %w", err)
	}

	return result, nil
}

func (s AnalyticsService) Recent(limit int) ([]models.AnalyticsEvent, error) {
	result := []models.AnalyticsEvent{}

	sql := `
SELECT
   e.id
   , e.shoot_id
   , e.image_id
   , e.client_id
   , e.event
   , e.created_at
FROM analytics_events AS e
ORDER BY e.created_at DESC, e.id DESC
LIMIT ?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.db.Query(ctx, &result, sql, limit); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for recent analytics: %w", err)
	}

	return result, nil
}

var _ AnalyticsServicer = AnalyticsService{}
