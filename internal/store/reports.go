package store

import (
	"context"

	"genetrack-backend-go/internal/models"
)

const (
	entityReport = "report"
	entityShare  = "subject_share"
)

func validateReport(r *models.Report) error {
	if err := models.CheckOptionalEnum("report type", r.ReportType); err != nil {
		return err
	}
	if err := models.CheckOptionalEnum("test type", r.TestType); err != nil {
		return err
	}
	return models.CheckOptionalEnum("file type", r.FileType)
}

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	if err := validateReport(r); err != nil {
		return s.reject(entityReport, "create", err)
	}
	s.stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	return s.insert(ctx, entityReport, "reports", r)
}

func (s *Store) GetReport(ctx context.Context, id string) (*models.Report, error) {
	return get[models.Report](ctx, s, entityReport, selectFrom("reports")+" WHERE id = ?", id)
}

func (s *Store) ListReports(ctx context.Context, subjectID string) ([]models.Report, error) {
	return list[models.Report](ctx, s, entityReport,
		selectFrom("reports")+" WHERE subject_id = ? ORDER BY created_at", subjectID)
}

func (s *Store) UpdateReport(ctx context.Context, r *models.Report) error {
	if err := validateReport(r); err != nil {
		return s.reject(entityReport, "update", err)
	}
	r.UpdatedAt = s.now()
	return s.update(ctx, entityReport, "reports", r)
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityReport, "reports", id)
}

func (s *Store) CreateShare(ctx context.Context, share *models.SubjectShare) error {
	if err := models.CheckEnum("access type", share.AccessType); err != nil {
		return s.reject(entityShare, "create", err)
	}
	s.stamp(&share.ID, &share.CreatedAt, &share.UpdatedAt)
	return s.insert(ctx, entityShare, "subject_shares", share)
}

func (s *Store) GetShare(ctx context.Context, id string) (*models.SubjectShare, error) {
	return get[models.SubjectShare](ctx, s, entityShare, selectFrom("subject_shares")+" WHERE id = ?", id)
}

// FindShare returns the most recent share of subjectID with userID.
func (s *Store) FindShare(ctx context.Context, subjectID, userID string) (*models.SubjectShare, error) {
	return get[models.SubjectShare](ctx, s, entityShare,
		selectFrom("subject_shares")+" WHERE subject_id = ? AND user_id = ? ORDER BY updated_at DESC LIMIT 1",
		subjectID, userID)
}

func (s *Store) ListShares(ctx context.Context, subjectID string) ([]models.SubjectShare, error) {
	return list[models.SubjectShare](ctx, s, entityShare,
		selectFrom("subject_shares")+" WHERE subject_id = ? ORDER BY created_at", subjectID)
}

// ListSharedSubjects returns subjects shared with userID, excluding their own.
func (s *Store) ListSharedSubjects(ctx context.Context, userID string) ([]models.Subject, error) {
	return list[models.Subject](ctx, s, entityShare, `
SELECT DISTINCT sub.* FROM subjects sub
JOIN subject_shares sh ON sh.subject_id = sub.id
WHERE sh.user_id = ? AND sub.user_id <> ?
ORDER BY sub.internal_id`, userID, userID)
}

func (s *Store) UpdateShare(ctx context.Context, share *models.SubjectShare) error {
	if err := models.CheckEnum("access type", share.AccessType); err != nil {
		return s.reject(entityShare, "update", err)
	}
	share.UpdatedAt = s.now()
	return s.update(ctx, entityShare, "subject_shares", share)
}

func (s *Store) DeleteShare(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityShare, "subject_shares", id)
}
