package store

import (
	"context"
	"errors"

	"genetrack-backend-go/internal/models"
)

const entityNotificationPreference = "notification_preference"

// UpsertNotificationPreference stores the single preference row of a user,
// filling empty channels with the default.
func (s *Store) UpsertNotificationPreference(ctx context.Context, pref *models.NotificationPreference) error {
	for _, channel := range []*string{&pref.NewReportAvailable, &pref.NewSampleEvent, &pref.SubjectFileUpload} {
		if *channel == "" {
			*channel = models.DefaultNotificationChannel
		}
	}
	existing, err := s.GetNotificationPreference(ctx, pref.UserID)
	switch {
	case errors.Is(err, ErrNotFound):
		s.stamp(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt)
		return s.insert(ctx, entityNotificationPreference, "notification_preferences", pref)
	case err != nil:
		return err
	}
	pref.ID = existing.ID
	pref.CreatedAt = existing.CreatedAt
	pref.UpdatedAt = s.now()
	return s.update(ctx, entityNotificationPreference, "notification_preferences", pref)
}

func (s *Store) GetNotificationPreference(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	return get[models.NotificationPreference](ctx, s, entityNotificationPreference,
		selectFrom("notification_preferences")+" WHERE user_id = ?", userID)
}
