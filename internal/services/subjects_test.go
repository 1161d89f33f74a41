package services

import (
	"context"
	"testing"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

func TestCreateSubjectAllocatesInternalIDs(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.test")
	first := f.subject(t, owner)
	second := f.subject(t, owner)
	if first.InternalID != 1 || second.InternalID != 2 {
		t.Fatalf("internal ids %d, %d", first.InternalID, second.InternalID)
	}
	if first.Status != models.SubjectDraft || first.WizardStep != models.StepPersonalInfo || first.VersionNumber != 1 {
		t.Fatalf("unexpected defaults: %+v", first)
	}
}

func TestSubjectWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	sub := f.subject(t, owner)

	_, err := f.svc.SubmitSubject(ctx, owner.ID, sub.ID, nil)
	assertStatus(t, err, 409)

	_, err = f.svc.DeclareSubject(ctx, owner.ID, sub.ID)
	assertNoError(t, err)
	_, err = f.svc.DeclareSubject(ctx, owner.ID, sub.ID)
	assertStatus(t, err, 409)

	_, err = f.svc.SubmitSubject(ctx, owner.ID, sub.ID, nil)
	assertStatus(t, err, 400)

	steps := []models.WizardStep{
		models.StepFamilyHistory,
		models.StepClinicalInfo,
		models.StepPhysicalInfo,
		models.StepSummary,
		models.StepCompleted,
	}
	for _, want := range steps {
		got, err := f.svc.AdvanceWizard(ctx, owner.ID, sub.ID)
		assertNoError(t, err)
		if got.WizardStep != want {
			t.Fatalf("wizard step %s, want %s", got.WizardStep, want)
		}
	}
	_, err = f.svc.AdvanceWizard(ctx, owner.ID, sub.ID)
	assertStatus(t, err, 409)

	submitted, err := f.svc.SubmitSubject(ctx, owner.ID, sub.ID, ptr("ready for lab"))
	assertNoError(t, err)
	if submitted.Status != models.SubjectSubmitted {
		t.Fatalf("status %s", submitted.Status)
	}
	if got := f.pub.types(); len(got) != 1 || got[0] != models.EventSubjectSubmitted {
		t.Fatalf("published %v", got)
	}
	stored, err := f.store.ListEvents(ctx, store.EventFilter{SubjectID: sub.ID, Type: models.EventSubjectSubmitted})
	assertNoError(t, err)
	if len(stored) != 1 || stored[0].Comment == nil || *stored[0].Comment != "ready for lab" || *stored[0].UserID != owner.ID {
		t.Fatalf("unexpected stored events: %+v", stored)
	}

	_, err = f.svc.UpdateSubjectDetails(ctx, owner.ID, sub.ID, SubjectDetails{FirstName: ptr("Late")})
	assertStatus(t, err, 409)
}

func TestUpdateSubjectDetailsBumpsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	sub := f.subject(t, owner)

	updated, err := f.svc.UpdateSubjectDetails(ctx, owner.ID, sub.ID, SubjectDetails{FirstName: ptr("Ada"), Email: ptr("ada@example.test")})
	assertNoError(t, err)
	updated, err = f.svc.UpdateSubjectDetails(ctx, owner.ID, sub.ID, SubjectDetails{LastName: ptr("Lovelace")})
	assertNoError(t, err)
	if updated.VersionNumber != 3 {
		t.Fatalf("version %d, want 3", updated.VersionNumber)
	}
	reloaded, err := f.store.GetSubject(ctx, sub.ID)
	assertNoError(t, err)
	if *reloaded.FirstName != "Ada" || *reloaded.LastName != "Lovelace" || reloaded.VersionNumber != 3 {
		t.Fatalf("unexpected subject: %+v", reloaded)
	}
}

func TestSharingControlsAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	colleague := f.user(t, "colleague@example.test")
	stranger := f.user(t, "stranger@example.test")
	admin := f.admin(t, "admin@example.test")
	sub := f.subject(t, owner)

	canRead, err := f.svc.CanRead(ctx, colleague.ID, sub.ID)
	assertNoError(t, err)
	if canRead {
		t.Fatal("colleague reads before any share")
	}

	_, err = f.svc.ShareSubject(ctx, owner.ID, sub.ID, colleague.ID, models.AccessRead)
	assertNoError(t, err)
	canRead, _ = f.svc.CanRead(ctx, colleague.ID, sub.ID)
	canWrite, _ := f.svc.CanWrite(ctx, colleague.ID, sub.ID)
	if !canRead || canWrite {
		t.Fatalf("read share gave read=%v write=%v", canRead, canWrite)
	}
	_, err = f.svc.AdvanceWizard(ctx, colleague.ID, sub.ID)
	assertStatus(t, err, 403)

	_, err = f.svc.ShareSubject(ctx, owner.ID, sub.ID, colleague.ID, models.AccessReadWrite)
	assertNoError(t, err)
	shares, err := f.store.ListShares(ctx, sub.ID)
	assertNoError(t, err)
	if len(shares) != 1 || shares[0].AccessType != models.AccessReadWrite {
		t.Fatalf("expected one upgraded share, got %+v", shares)
	}
	_, err = f.svc.AdvanceWizard(ctx, colleague.ID, sub.ID)
	assertNoError(t, err)

	_, err = f.svc.ShareSubject(ctx, colleague.ID, sub.ID, stranger.ID, models.AccessRead)
	assertStatus(t, err, 403)
	_, err = f.svc.ShareSubject(ctx, owner.ID, sub.ID, owner.ID, models.AccessRead)
	assertStatus(t, err, 400)
	_, err = f.svc.ShareSubject(ctx, owner.ID, sub.ID, stranger.ID, models.AccessType("Admin"))
	assertStatus(t, err, 400)

	_, err = f.svc.GetSubject(ctx, stranger.ID, sub.ID)
	assertStatus(t, err, 403)
	_, err = f.svc.GetSubject(ctx, admin.ID, sub.ID)
	assertNoError(t, err)

	assertNoError(t, f.svc.RevokeShare(ctx, owner.ID, sub.ID, colleague.ID))
	canRead, _ = f.svc.CanRead(ctx, colleague.ID, sub.ID)
	if canRead {
		t.Fatal("revoked share still readable")
	}
	assertStatus(t, f.svc.RevokeShare(ctx, owner.ID, sub.ID, colleague.ID), 404)
}
