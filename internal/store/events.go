package store

import (
	"context"
	"strings"

	"genetrack-backend-go/internal/models"
)

const entityEvent = "event"

func (s *Store) CreateEvent(ctx context.Context, ev *models.Event) error {
	if err := models.CheckEnum("event type", ev.Type); err != nil {
		return s.reject(entityEvent, "create", err)
	}
	s.stamp(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if ev.EventTime.IsZero() {
		ev.EventTime = ev.CreatedAt
	}
	return s.insert(ctx, entityEvent, "events", ev)
}

func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return get[models.Event](ctx, s, entityEvent, selectFrom("events")+" WHERE id = ?", id)
}

type EventFilter struct {
	SubjectID string
	UserID    string
	Type      models.EventType
	Limit     int
}

// ListEvents returns events matching every non-empty filter field, newest first.
func (s *Store) ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SubjectID != "" {
		conds = append(conds, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	query := selectFrom("events")
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY event_time DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	return list[models.Event](ctx, s, entityEvent, query, args...)
}
