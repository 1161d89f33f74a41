// Package services holds the workflows of the platform: accounts, sessions,
// API tokens, subjects, samples, orders, reports, payments and finance.
package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"genetrack-backend-go/internal/events"
	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/storage"
	"genetrack-backend-go/internal/store"

	"github.com/jmoiron/sqlx/types"
)

type Options struct {
	Store       *store.Store
	Blobs       storage.Store
	Events      events.Publisher
	Sessions    SessionSigner
	APITokenTTL time.Duration
	Logger      *slog.Logger
}

type Service struct {
	store       *store.Store
	blobs       storage.Store
	events      events.Publisher
	sessions    SessionSigner
	apiTokenTTL time.Duration
	logger      *slog.Logger
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := opts.Events
	if publisher == nil {
		publisher = events.LogPublisher{Logger: logger}
	}
	ttl := opts.APITokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{
		store:       opts.Store,
		blobs:       opts.Blobs,
		events:      publisher,
		sessions:    opts.Sessions,
		apiTokenTTL: ttl,
		logger:      logger.With("component", "services"),
	}
}

func (s *Service) now() time.Time {
	return s.store.Now()
}

// publish hands committed events to the publisher. The rows are already
// stored, so a broker failure is logged and not returned.
func (s *Service) publish(ctx context.Context, evs ...*models.Event) {
	for _, ev := range evs {
		if err := s.events.Publish(ctx, *ev); err != nil {
			s.logger.WarnContext(ctx, "event publish failed", "event", ev.ID, "type", ev.Type, "error", err)
		}
	}
}

func eventData(fields map[string]interface{}) types.NullJSONText {
	raw, err := json.Marshal(fields)
	if err != nil {
		return types.NullJSONText{}
	}
	return types.NullJSONText{JSONText: types.JSONText(raw), Valid: true}
}
