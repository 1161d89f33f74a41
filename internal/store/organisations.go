package store

import (
	"context"

	"genetrack-backend-go/internal/models"
)

const (
	entityOrganisation = "organisation"
	entityMembership   = "organisation_user"
	entityOfficeUnit   = "office_unit"
)

func (s *Store) CreateOrganisation(ctx context.Context, org *models.Organisation) error {
	s.stamp(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	return s.insert(ctx, entityOrganisation, "organisations", org)
}

func (s *Store) GetOrganisation(ctx context.Context, id string) (*models.Organisation, error) {
	return get[models.Organisation](ctx, s, entityOrganisation, selectFrom("organisations")+" WHERE id = ?", id)
}

func (s *Store) ListOrganisations(ctx context.Context) ([]models.Organisation, error) {
	return list[models.Organisation](ctx, s, entityOrganisation, selectFrom("organisations")+" ORDER BY name")
}

func (s *Store) UpdateOrganisation(ctx context.Context, org *models.Organisation) error {
	org.UpdatedAt = s.now()
	return s.update(ctx, entityOrganisation, "organisations", org)
}

// DeleteOrganisation also removes its office units and memberships.
func (s *Store) DeleteOrganisation(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityOrganisation, "organisations", id)
}

// AddOrganisationMember is idempotent: adding an existing member is a no-op.
func (s *Store) AddOrganisationMember(ctx context.Context, organisationID, userID string) error {
	_, err := s.exec(ctx, entityMembership, "create",
		`INSERT INTO organisation_users (organisation_id, user_id) VALUES (?, ?) ON CONFLICT (organisation_id, user_id) DO NOTHING`,
		organisationID, userID)
	return err
}

func (s *Store) RemoveOrganisationMember(ctx context.Context, organisationID, userID string) error {
	return s.execOne(ctx, entityMembership, "delete",
		`DELETE FROM organisation_users WHERE organisation_id = ? AND user_id = ?`, organisationID, userID)
}

func (s *Store) ListOrganisationMembers(ctx context.Context, organisationID string) ([]models.User, error) {
	return list[models.User](ctx, s, entityMembership, `
SELECT u.* FROM users u
JOIN organisation_users ou ON ou.user_id = u.id
WHERE ou.organisation_id = ?
ORDER BY u.email`, organisationID)
}

func (s *Store) ListUserOrganisations(ctx context.Context, userID string) ([]models.Organisation, error) {
	return list[models.Organisation](ctx, s, entityMembership, `
SELECT o.* FROM organisations o
JOIN organisation_users ou ON ou.organisation_id = o.id
WHERE ou.user_id = ?
ORDER BY o.name`, userID)
}

func (s *Store) CreateOfficeUnit(ctx context.Context, unit *models.OfficeUnit) error {
	s.stamp(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	return s.insert(ctx, entityOfficeUnit, "office_units", unit)
}

func (s *Store) GetOfficeUnit(ctx context.Context, id string) (*models.OfficeUnit, error) {
	return get[models.OfficeUnit](ctx, s, entityOfficeUnit, selectFrom("office_units")+" WHERE id = ?", id)
}

func (s *Store) ListOfficeUnits(ctx context.Context, organisationID string) ([]models.OfficeUnit, error) {
	return list[models.OfficeUnit](ctx, s, entityOfficeUnit,
		selectFrom("office_units")+" WHERE organisation_id = ? ORDER BY name", organisationID)
}

func (s *Store) UpdateOfficeUnit(ctx context.Context, unit *models.OfficeUnit) error {
	unit.UpdatedAt = s.now()
	return s.update(ctx, entityOfficeUnit, "office_units", unit)
}

// DeleteOfficeUnit clears the office unit on subjects that pointed at it.
func (s *Store) DeleteOfficeUnit(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityOfficeUnit, "office_units", id)
}
