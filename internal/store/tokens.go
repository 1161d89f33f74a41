package store

import (
	"context"
	"time"

	"genetrack-backend-go/internal/models"
)

const (
	entityToken     = "token"
	entityAccessLog = "api_access_log"
)

func (s *Store) CreateToken(ctx context.Context, tok *models.Token) error {
	s.stamp(&tok.ID, &tok.CreatedAt, &tok.UpdatedAt)
	tok.ExpiresAt = tok.ExpiresAt.UTC()
	return s.insert(ctx, entityToken, "tokens", tok)
}

func (s *Store) GetToken(ctx context.Context, id string) (*models.Token, error) {
	return get[models.Token](ctx, s, entityToken, selectFrom("tokens")+" WHERE id = ?", id)
}

// FindActiveTokens returns enabled, unexpired tokens of tokenType sent to sentTo.
func (s *Store) FindActiveTokens(ctx context.Context, tokenType, sentTo string, now time.Time) ([]models.Token, error) {
	return list[models.Token](ctx, s, entityToken,
		selectFrom("tokens")+` WHERE token_type = ? AND lower(sent_to) = lower(?) AND disabled = ? AND expires_at > ? ORDER BY created_at DESC`,
		tokenType, sentTo, false, now.UTC())
}

func (s *Store) ListUserTokens(ctx context.Context, userID string) ([]models.Token, error) {
	return list[models.Token](ctx, s, entityToken, selectFrom("tokens")+" WHERE user_id = ? ORDER BY created_at", userID)
}

func (s *Store) DisableToken(ctx context.Context, id string) error {
	return s.execOne(ctx, entityToken, "update", `UPDATE tokens SET disabled = ?, updated_at = ? WHERE id = ?`, true, s.now(), id)
}

// DisableExpiredTokens flags every enabled token whose expiry is before now.
func (s *Store) DisableExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return s.exec(ctx, entityToken, "expire",
		`UPDATE tokens SET disabled = ?, updated_at = ? WHERE disabled = ? AND expires_at <= ?`,
		true, s.now(), false, now.UTC())
}

// DeleteToken fails with ErrRestricted while access logs reference the token.
func (s *Store) DeleteToken(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityToken, "tokens", id)
}

// CreateAccessLog appends an audit row. Access logs are never updated.
func (s *Store) CreateAccessLog(ctx context.Context, entry *models.ApiAccessLog) error {
	s.stamp(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	return s.insert(ctx, entityAccessLog, "api_access_logs", entry)
}

func (s *Store) ListAccessLogs(ctx context.Context, tokenID string) ([]models.ApiAccessLog, error) {
	return list[models.ApiAccessLog](ctx, s, entityAccessLog,
		selectFrom("api_access_logs")+" WHERE token_id = ? ORDER BY created_at", tokenID)
}
