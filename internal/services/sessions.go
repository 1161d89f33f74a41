package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

type SessionGrant struct {
	Token         string
	AntiCSRFToken string
	ExpiresAt     time.Time
	Session       *models.Session
}

type sessionPublicData struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// CreateSession starts a session for user. Only a hash of the returned token
// is stored.
func (s *Service) CreateSession(ctx context.Context, user *models.User) (*SessionGrant, error) {
	handle, err := randomSecret(24)
	if err != nil {
		return nil, WrapError(err, "session handle")
	}
	csrf, err := randomSecret(24)
	if err != nil {
		return nil, WrapError(err, "anti-csrf token")
	}
	signed, exp, err := s.sessions.Sign(handle, user.ID, user.Role, s.now())
	if err != nil {
		return nil, WrapError(err, "sign session")
	}
	public, err := json.Marshal(sessionPublicData{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	hashed := hashSecret(signed)
	publicData := string(public)
	userID := user.ID
	sess := &models.Session{
		Handle:             handle,
		HashedSessionToken: &hashed,
		AntiCSRFToken:      &csrf,
		PublicData:         &publicData,
		UserID:             &userID,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, FromStoreError(err, "session")
	}
	return &SessionGrant{Token: signed, AntiCSRFToken: csrf, ExpiresAt: exp, Session: sess}, nil
}

// VerifySession resolves a presented token to its live session.
func (s *Service) VerifySession(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.sessions.Parse(token, s.now())
	if err != nil {
		return nil, ErrUnauthorized("invalid session")
	}
	sess, err := s.store.GetSessionByHandle(ctx, claims.Handle)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized("session ended")
	}
	if err != nil {
		return nil, FromStoreError(err, "session")
	}
	if sess.HashedSessionToken == nil || !secretMatches(token, *sess.HashedSessionToken) {
		return nil, ErrUnauthorized("invalid session")
	}
	if sess.UserID == nil || *sess.UserID != claims.Subject {
		return nil, ErrUnauthorized("session has no user")
	}
	return sess, nil
}

func CheckAntiCSRF(sess *models.Session, presented string) error {
	if sess.AntiCSRFToken == nil || subtle.ConstantTimeCompare([]byte(*sess.AntiCSRFToken), []byte(presented)) != 1 {
		return ErrForbidden("anti-csrf token mismatch")
	}
	return nil
}

func (s *Service) RevokeSession(ctx context.Context, token string) error {
	sess, err := s.VerifySession(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, sess.ID); err != nil {
		return FromStoreError(err, "session")
	}
	return nil
}
