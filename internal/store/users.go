package store

import (
	"context"
	"strings"
	"time"

	"genetrack-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const entityUser = "user"

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if strings.TrimSpace(u.Role) == "" {
		u.Role = models.DefaultUserRole
	}
	return s.insert(ctx, entityUser, "users", u)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return get[models.User](ctx, s, entityUser, selectFrom("users")+" WHERE id = ?", id)
}

// LockUser takes a row lock on the user until the surrounding transaction
// ends. SQLite runs on a single connection, so only Postgres needs the lock.
func (s *Store) LockUser(ctx context.Context, id string) error {
	query := "SELECT id FROM users WHERE id = ?"
	if s.db.DriverName() == "pgx" {
		query += " FOR UPDATE"
	}
	start := time.Now()
	var locked string
	err := sqlx.GetContext(ctx, s.ext, &locked, s.ext.Rebind(query), id)
	return s.finish(entityUser, "lock", start, err)
}

// GetUserByEmail matches the address case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return get[models.User](ctx, s, entityUser, selectFrom("users")+" WHERE lower(email) = lower(?)", strings.TrimSpace(email))
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, s, entityUser, selectFrom("users")+" ORDER BY email")
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	return s.update(ctx, entityUser, "users", u)
}

func (s *Store) SetUserPassword(ctx context.Context, userID, hashed string) error {
	return s.execOne(ctx, entityUser, "update",
		`UPDATE users SET hashed_password = ?, updated_at = ? WHERE id = ?`, hashed, s.now(), userID)
}

// DeleteUser removes the user. Owned products, subjects, finance settings,
// tokens and shares go with it; sessions, events, uploaded reports and
// created finance settings keep their rows with the reference cleared.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityUser, "users", id)
}
