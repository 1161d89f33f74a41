package store

import (
	"context"

	"genetrack-backend-go/internal/models"
)

const (
	entitySubject     = "subject"
	entitySubjectFile = "subject_file"
)

func validateSubject(sub *models.Subject) error {
	if err := models.CheckEnum("subject status", sub.Status); err != nil {
		return err
	}
	return models.CheckEnum("wizard step", sub.WizardStep)
}

func (s *Store) CreateSubject(ctx context.Context, sub *models.Subject) error {
	if sub.Status == "" {
		sub.Status = models.SubjectDraft
	}
	if sub.WizardStep == "" {
		sub.WizardStep = models.StepPersonalInfo
	}
	if sub.VersionNumber == 0 {
		sub.VersionNumber = 1
	}
	if err := validateSubject(sub); err != nil {
		return s.reject(entitySubject, "create", err)
	}
	s.stamp(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	return s.insert(ctx, entitySubject, "subjects", sub)
}

func (s *Store) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return get[models.Subject](ctx, s, entitySubject, selectFrom("subjects")+" WHERE id = ?", id)
}

func (s *Store) GetSubjectByInternalID(ctx context.Context, internalID int64) (*models.Subject, error) {
	return get[models.Subject](ctx, s, entitySubject, selectFrom("subjects")+" WHERE internal_id = ?", internalID)
}

func (s *Store) ListSubjects(ctx context.Context, userID string) ([]models.Subject, error) {
	return list[models.Subject](ctx, s, entitySubject,
		selectFrom("subjects")+" WHERE user_id = ? ORDER BY internal_id", userID)
}

func (s *Store) UpdateSubject(ctx context.Context, sub *models.Subject) error {
	if err := validateSubject(sub); err != nil {
		return s.reject(entitySubject, "update", err)
	}
	sub.UpdatedAt = s.now()
	return s.update(ctx, entitySubject, "subjects", sub)
}

// NextSubjectInternalID proposes the next free internal id. Concurrent
// callers may receive the same value; the unique constraint decides.
func (s *Store) NextSubjectInternalID(ctx context.Context) (int64, error) {
	next, err := get[int64](ctx, s, entitySubject, `SELECT COALESCE(MAX(internal_id), 0) + 1 FROM subjects`)
	if err != nil {
		return 0, err
	}
	return *next, nil
}

// DeleteSubject removes the subject with its files, orders, reports and
// shares. Samples and payments stay with the subject reference cleared.
func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entitySubject, "subjects", id)
}

func (s *Store) CreateSubjectFile(ctx context.Context, file *models.SubjectFile) error {
	s.stamp(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	return s.insert(ctx, entitySubjectFile, "subject_files", file)
}

func (s *Store) GetSubjectFile(ctx context.Context, id string) (*models.SubjectFile, error) {
	return get[models.SubjectFile](ctx, s, entitySubjectFile, selectFrom("subject_files")+" WHERE id = ?", id)
}

func (s *Store) ListSubjectFiles(ctx context.Context, subjectID string) ([]models.SubjectFile, error) {
	return list[models.SubjectFile](ctx, s, entitySubjectFile,
		selectFrom("subject_files")+" WHERE subject_id = ? ORDER BY created_at, name", subjectID)
}

func (s *Store) DeleteSubjectFile(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entitySubjectFile, "subject_files", id)
}
