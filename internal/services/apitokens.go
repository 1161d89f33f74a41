package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"

	"github.com/google/uuid"
)

type TokenRequest struct {
	UserID    string
	TokenType string
	SentTo    string
	Note      *string
}

// IssueToken creates an API token and returns the credential to hand out,
// "<token id>.<secret>". The secret is not recoverable afterwards.
func (s *Service) IssueToken(ctx context.Context, req TokenRequest) (string, *models.Token, error) {
	tokenType := strings.TrimSpace(req.TokenType)
	if tokenType == "" {
		return "", nil, ErrBadRequest("token type required")
	}
	secret, err := randomSecret(32)
	if err != nil {
		return "", nil, WrapError(err, "token secret")
	}
	tok := &models.Token{
		HashedToken: hashSecret(secret),
		TokenType:   tokenType,
		Note:        req.Note,
		ExpiresAt:   s.now().Add(s.apiTokenTTL),
		SentTo:      strings.TrimSpace(req.SentTo),
		UserID:      req.UserID,
	}
	if err := s.store.CreateToken(ctx, tok); err != nil {
		return "", nil, FromStoreError(err, "token")
	}
	s.logger.InfoContext(ctx, "api token issued", "token", tok.ID, "user", tok.UserID, "type", tok.TokenType)
	return tok.ID + "." + secret, tok, nil
}

// UseToken authorizes action with a presented credential and records the
// attempt in the token's access log.
func (s *Service) UseToken(ctx context.Context, credential, action string, data map[string]interface{}) (*models.Token, error) {
	id, secret, ok := strings.Cut(credential, ".")
	if !ok || id == "" || secret == "" {
		return nil, ErrUnauthorized("malformed token")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUnauthorized("unknown token")
	}
	tok, err := s.store.GetToken(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized("unknown token")
	}
	if err != nil {
		return nil, FromStoreError(err, "token")
	}
	var reason string
	switch {
	case !secretMatches(secret, tok.HashedToken):
		reason = "token secret mismatch"
	case tok.Disabled:
		reason = "token disabled"
	case !tok.ExpiresAt.After(s.now()):
		reason = "token expired"
	}
	entry := &models.ApiAccessLog{
		TokenID: tok.ID,
		Action:  action,
		Success: reason == "",
	}
	if reason != "" {
		entry.Comment = &reason
	}
	if data != nil {
		entry.Data = eventData(data)
	}
	if err := s.store.CreateAccessLog(ctx, entry); err != nil {
		return nil, FromStoreError(err, "access log")
	}
	if reason != "" {
		s.logger.WarnContext(ctx, "api token rejected", "token", tok.ID, "action", action, "reason", reason)
		return nil, ErrUnauthorized(reason)
	}
	return tok, nil
}

func (s *Service) DisableToken(ctx context.Context, actorID, tokenID string) error {
	tok, err := s.store.GetToken(ctx, tokenID)
	if err != nil {
		return FromStoreError(err, "token")
	}
	if tok.UserID != actorID {
		admin, err := s.isSuperAdmin(ctx, actorID)
		if err != nil {
			return err
		}
		if !admin {
			return ErrForbidden("token belongs to another user")
		}
	}
	if err := s.store.DisableToken(ctx, tokenID); err != nil {
		return FromStoreError(err, "token")
	}
	return nil
}

func (s *Service) SweepExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.store.DisableExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, FromStoreError(err, "token")
	}
	return n, nil
}

// RunTokenSweeper disables expired tokens every interval until ctx ends.
func (s *Service) RunTokenSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpiredTokens(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "expired tokens disabled", "count", n)
			}
		}
	}
}
