package services

import (
	"context"
	"errors"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

const internalIDAttempts = 5

type SubjectDetails struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	OfficeUnitID *string
}

func (d SubjectDetails) applyTo(sub *models.Subject) {
	if d.FirstName != nil {
		sub.FirstName = d.FirstName
	}
	if d.LastName != nil {
		sub.LastName = d.LastName
	}
	if d.Email != nil {
		sub.Email = d.Email
	}
	if d.Phone != nil {
		sub.Phone = d.Phone
	}
	if d.OfficeUnitID != nil {
		sub.OfficeUnitID = d.OfficeUnitID
	}
}

// CreateSubject registers a Draft subject for ownerID. The internal id is the
// next free number; a concurrent writer taking it causes a retry.
func (s *Service) CreateSubject(ctx context.Context, ownerID string, details SubjectDetails) (*models.Subject, error) {
	for attempt := 0; attempt < internalIDAttempts; attempt++ {
		next, err := s.store.NextSubjectInternalID(ctx)
		if err != nil {
			return nil, FromStoreError(err, "subject")
		}
		sub := &models.Subject{InternalID: next, UserID: ownerID}
		details.applyTo(sub)
		err = s.store.CreateSubject(ctx, sub)
		if errors.Is(err, store.ErrConflict) {
			s.logger.DebugContext(ctx, "subject internal id taken", "internal_id", next)
			continue
		}
		if err != nil {
			return nil, FromStoreError(err, "subject")
		}
		s.logger.InfoContext(ctx, "subject created", "subject", sub.ID, "internal_id", sub.InternalID, "owner", ownerID)
		return sub, nil
	}
	return nil, ErrConflict("could not allocate a subject internal id")
}

func (s *Service) GetSubject(ctx context.Context, actorID, subjectID string) (*models.Subject, error) {
	sub, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, FromStoreError(err, "subject")
	}
	ok, err := s.canAccess(ctx, actorID, sub, models.AccessRead)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden("no access to subject")
	}
	return sub, nil
}

// CanRead reports whether userID owns subjectID or holds any share of it.
func (s *Service) CanRead(ctx context.Context, userID, subjectID string) (bool, error) {
	sub, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return false, FromStoreError(err, "subject")
	}
	return s.canAccess(ctx, userID, sub, models.AccessRead)
}

// CanWrite reports whether userID owns subjectID or holds a Read & Write share.
func (s *Service) CanWrite(ctx context.Context, userID, subjectID string) (bool, error) {
	sub, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return false, FromStoreError(err, "subject")
	}
	return s.canAccess(ctx, userID, sub, models.AccessReadWrite)
}

func (s *Service) canAccess(ctx context.Context, userID string, sub *models.Subject, need models.AccessType) (bool, error) {
	if sub.UserID == userID {
		return true, nil
	}
	admin, err := s.isSuperAdmin(ctx, userID)
	if err != nil || admin {
		return admin, err
	}
	share, err := s.store.FindShare(ctx, sub.ID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, FromStoreError(err, "subject share")
	}
	if need == models.AccessReadWrite {
		return share.AccessType == models.AccessReadWrite, nil
	}
	return true, nil
}

func (s *Service) writableSubject(ctx context.Context, actorID, subjectID string) (*models.Subject, error) {
	sub, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, FromStoreError(err, "subject")
	}
	ok, err := s.canAccess(ctx, actorID, sub, models.AccessReadWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden("no write access to subject")
	}
	return sub, nil
}

// editableSubject is a writable subject that has not been submitted yet.
func (s *Service) editableSubject(ctx context.Context, actorID, subjectID string) (*models.Subject, error) {
	sub, err := s.writableSubject(ctx, actorID, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubjectSubmitted {
		return nil, ErrConflict("subject is already submitted")
	}
	return sub, nil
}

func (s *Service) AdvanceWizard(ctx context.Context, actorID, subjectID string) (*models.Subject, error) {
	sub, err := s.editableSubject(ctx, actorID, subjectID)
	if err != nil {
		return nil, err
	}
	next, ok := sub.WizardStep.Next()
	if !ok {
		return nil, ErrConflict("wizard is already completed")
	}
	sub.WizardStep = next
	if err := s.store.UpdateSubject(ctx, sub); err != nil {
		return nil, FromStoreError(err, "subject")
	}
	return sub, nil
}

// UpdateSubjectDetails applies the non-nil fields and bumps the version.
func (s *Service) UpdateSubjectDetails(ctx context.Context, actorID, subjectID string, details SubjectDetails) (*models.Subject, error) {
	sub, err := s.editableSubject(ctx, actorID, subjectID)
	if err != nil {
		return nil, err
	}
	details.applyTo(sub)
	sub.VersionNumber++
	if err := s.store.UpdateSubject(ctx, sub); err != nil {
		return nil, FromStoreError(err, "subject")
	}
	return sub, nil
}

func (s *Service) DeclareSubject(ctx context.Context, actorID, subjectID string) (*models.Subject, error) {
	sub, err := s.editableSubject(ctx, actorID, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubjectDraft {
		return nil, ErrConflict("only draft subjects can be declared")
	}
	sub.Status = models.SubjectDeclared
	if err := s.store.UpdateSubject(ctx, sub); err != nil {
		return nil, FromStoreError(err, "subject")
	}
	return sub, nil
}

// SubmitSubject locks a declared subject whose wizard is completed and
// records a SubjectSubmitted event.
func (s *Service) SubmitSubject(ctx context.Context, actorID, subjectID string, comment *string) (*models.Subject, error) {
	sub, err := s.editableSubject(ctx, actorID, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubjectDeclared {
		return nil, ErrConflict("only declared subjects can be submitted")
	}
	if sub.WizardStep != models.StepCompleted {
		return nil, ErrBadRequest("subject wizard is not completed")
	}
	sub.Status = models.SubjectSubmitted
	actor := actorID
	ev := &models.Event{
		Type:      models.EventSubjectSubmitted,
		SubjectID: &sub.ID,
		UserID:    &actor,
		Comment:   comment,
		Data:      eventData(map[string]interface{}{"internalId": sub.InternalID, "version": sub.VersionNumber}),
	}
	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateSubject(ctx, sub); err != nil {
			return err
		}
		return tx.CreateEvent(ctx, ev)
	})
	if err != nil {
		return nil, FromStoreError(err, "subject")
	}
	s.publish(ctx, ev)
	return sub, nil
}

// ShareSubject grants targetID access to a subject, replacing an existing
// grant's access type. Only the owner or a super admin may share.
func (s *Service) ShareSubject(ctx context.Context, actorID, subjectID, targetID string, access models.AccessType) (*models.SubjectShare, error) {
	if err := models.CheckEnum("access type", access); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	sub, err := s.ownedSubject(ctx, actorID, subjectID)
	if err != nil {
		return nil, err
	}
	if targetID == sub.UserID {
		return nil, ErrBadRequest("subject owner cannot be a share target")
	}
	share, err := s.store.FindShare(ctx, subjectID, targetID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		share = &models.SubjectShare{SubjectID: subjectID, UserID: targetID, AccessType: access}
		err = s.store.CreateShare(ctx, share)
	case err == nil:
		share.AccessType = access
		err = s.store.UpdateShare(ctx, share)
	}
	if err != nil {
		return nil, FromStoreError(err, "subject share")
	}
	s.logger.InfoContext(ctx, "subject shared", "subject", subjectID, "user", targetID, "access", access)
	return share, nil
}

func (s *Service) RevokeShare(ctx context.Context, actorID, subjectID, targetID string) error {
	if _, err := s.ownedSubject(ctx, actorID, subjectID); err != nil {
		return err
	}
	share, err := s.store.FindShare(ctx, subjectID, targetID)
	if err != nil {
		return FromStoreError(err, "subject share")
	}
	if err := s.store.DeleteShare(ctx, share.ID); err != nil {
		return FromStoreError(err, "subject share")
	}
	return nil
}

func (s *Service) ownedSubject(ctx context.Context, actorID, subjectID string) (*models.Subject, error) {
	sub, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, FromStoreError(err, "subject")
	}
	if sub.UserID == actorID {
		return sub, nil
	}
	admin, err := s.isSuperAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrForbidden("only the owner can manage shares")
	}
	return sub, nil
}
