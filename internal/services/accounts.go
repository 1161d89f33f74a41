package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

const minPasswordLength = 8

type Registration struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Phone     *string
	Role      string
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrBadRequest("invalid email address")
	}
	return email, nil
}

// RegisterUser creates an account together with its notification preferences.
func (s *Service) RegisterUser(ctx context.Context, reg Registration) (*models.User, error) {
	email, err := normalizeEmail(reg.Email)
	if err != nil {
		return nil, err
	}
	if len(reg.Password) < minPasswordLength {
		return nil, ErrBadRequest("password must have at least 8 characters")
	}
	hashed, err := HashPassword(reg.Password)
	if err != nil {
		return nil, WrapError(err, "hash password")
	}
	user := &models.User{
		Email:          email,
		HashedPassword: &hashed,
		FirstName:      reg.FirstName,
		LastName:       reg.LastName,
		Phone:          reg.Phone,
		Role:           strings.ToUpper(strings.TrimSpace(reg.Role)),
	}
	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.UpsertNotificationPreference(ctx, &models.NotificationPreference{UserID: user.ID})
	})
	if err != nil {
		return nil, FromStoreError(err, "user")
	}
	s.logger.InfoContext(ctx, "user registered", "user", user.ID, "role", user.Role)
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, FromStoreError(err, "user")
	}
	if user.HashedPassword == nil || !VerifyPassword(password, *user.HashedPassword) {
		return nil, ErrUnauthorized("invalid credentials")
	}
	if user.Restricted {
		return nil, ErrForbidden("account is restricted")
	}
	return user, nil
}

// ChangePassword replaces the password and ends every session of the user.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return FromStoreError(err, "user")
	}
	if user.HashedPassword == nil || !VerifyPassword(current, *user.HashedPassword) {
		return ErrUnauthorized("current password is wrong")
	}
	if len(next) < minPasswordLength {
		return ErrBadRequest("password must have at least 8 characters")
	}
	hashed, err := HashPassword(next)
	if err != nil {
		return WrapError(err, "hash password")
	}
	var revoked int64
	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.SetUserPassword(ctx, userID, hashed); err != nil {
			return err
		}
		revoked, err = tx.DeleteUserSessions(ctx, userID)
		return err
	})
	if err != nil {
		return FromStoreError(err, "user")
	}
	s.logger.InfoContext(ctx, "password changed", "user", userID, "sessions_revoked", revoked)
	return nil
}

func (s *Service) isSuperAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, FromStoreError(err, "user")
	}
	return user.IsSuperAdmin, nil
}
