package services

import (
	"context"
	"errors"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

type NotificationKind string

const (
	NotifyNewReport         NotificationKind = "new_report_available"
	NotifySampleEvent       NotificationKind = "new_sample_event"
	NotifySubjectFileUpload NotificationKind = "subject_file_upload"
)

// NotificationChannelFor returns the channel userID picked for kind, falling
// back to the default when no preference row exists.
func (s *Service) NotificationChannelFor(ctx context.Context, userID string, kind NotificationKind) (string, error) {
	pref, err := s.store.GetNotificationPreference(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultNotificationChannel, nil
	}
	if err != nil {
		return "", FromStoreError(err, "notification preference")
	}
	var channel string
	switch kind {
	case NotifyNewReport:
		channel = pref.NewReportAvailable
	case NotifySampleEvent:
		channel = pref.NewSampleEvent
	case NotifySubjectFileUpload:
		channel = pref.SubjectFileUpload
	default:
		return "", ErrBadRequest("unknown notification kind " + string(kind))
	}
	if channel == "" {
		channel = models.DefaultNotificationChannel
	}
	return channel, nil
}

func (s *Service) SetNotificationPreference(ctx context.Context, pref *models.NotificationPreference) error {
	if err := s.store.UpsertNotificationPreference(ctx, pref); err != nil {
		return FromStoreError(err, "notification preference")
	}
	return nil
}

// notify tells the owner of a subject about something on their chosen
// channel. Delivery belongs to the channel integrations; here it is logged.
func (s *Service) notify(ctx context.Context, subjectID *string, kind NotificationKind, message string) {
	if subjectID == nil {
		return
	}
	sub, err := s.store.GetSubject(ctx, *subjectID)
	if err != nil {
		s.logger.WarnContext(ctx, "notification skipped", "subject", *subjectID, "error", err)
		return
	}
	channel, err := s.NotificationChannelFor(ctx, sub.UserID, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "notification skipped", "user", sub.UserID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "notification", "user", sub.UserID, "kind", kind, "channel", channel, "message", message)
}
