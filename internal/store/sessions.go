package store

import (
	"context"

	"genetrack-backend-go/internal/models"
)

const entitySession = "session"

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	s.stamp(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
	return s.insert(ctx, entitySession, "sessions", sess)
}

func (s *Store) GetSessionByHandle(ctx context.Context, handle string) (*models.Session, error) {
	return get[models.Session](ctx, s, entitySession, selectFrom("sessions")+" WHERE handle = ?", handle)
}

func (s *Store) UpdateSession(ctx context.Context, sess *models.Session) error {
	sess.UpdatedAt = s.now()
	return s.update(ctx, entitySession, "sessions", sess)
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entitySession, "sessions", id)
}

// DeleteUserSessions removes every session of userID and reports how many went.
func (s *Store) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	return s.exec(ctx, entitySession, "delete", `DELETE FROM sessions WHERE user_id = ?`, userID)
}
