package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/storage"
)

func TestSubjectFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	reader := f.user(t, "reader@example.test")
	sub := f.subject(t, owner)
	_, err := f.svc.ShareSubject(ctx, owner.ID, sub.ID, reader.ID, models.AccessRead)
	assertNoError(t, err)

	file, err := f.svc.UploadSubjectFile(ctx, owner.ID, sub.ID, "../pedigree.json", strings.NewReader(`{"generations":3}`), true)
	assertNoError(t, err)
	if file.Name != "pedigree.json" || file.Size != int64(len(`{"generations":3}`)) || !file.IsPedigree {
		t.Fatalf("unexpected file: %+v", file)
	}

	_, err = f.svc.UploadSubjectFile(ctx, owner.ID, sub.ID, "empty.txt", strings.NewReader(""), false)
	assertStatus(t, err, 400)
	_, err = f.svc.UploadSubjectFile(ctx, reader.ID, sub.ID, "notes.txt", strings.NewReader("x"), false)
	assertStatus(t, err, 403)

	body, meta, err := f.svc.OpenSubjectFile(ctx, reader.ID, file.ID)
	assertNoError(t, err)
	content, _ := io.ReadAll(body)
	_ = body.Close()
	if string(content) != `{"generations":3}` || meta.ID != file.ID {
		t.Fatalf("unexpected content %q", content)
	}

	assertStatus(t, f.svc.DeleteSubjectFile(ctx, reader.ID, file.ID), 403)
	assertNoError(t, f.svc.DeleteSubjectFile(ctx, owner.ID, file.ID))
	exists, err := f.blobs.Exists(ctx, storage.SubjectFileKey(sub.ID, file.ID))
	assertNoError(t, err)
	if exists {
		t.Fatal("stored object left behind")
	}
	_, _, err = f.svc.OpenSubjectFile(ctx, owner.ID, file.ID)
	assertStatus(t, err, 404)
}

func TestReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	stranger := f.user(t, "stranger@example.test")
	lab := f.admin(t, "lab@example.test")
	sub := f.subject(t, owner)
	otherSub := f.subject(t, owner)
	product, err := f.svc.AddProduct(ctx, owner.ID, models.ProductMyLifeExome, nil)
	assertNoError(t, err)
	order, err := f.svc.PlaceOrder(ctx, owner.ID, otherSub.ID, product.ID, 7001)
	assertNoError(t, err)

	upload := ReportUpload{
		SubjectID:  sub.ID,
		ReportType: ptr(models.ReportDiagnostics),
		TestType:   ptr(models.TestWholeExomeSequencing),
		FileType:   models.FilePDF,
		FileName:   "diagnostics.pdf",
	}

	bad := upload
	bad.FileType = models.FileType("DOCX")
	_, err = f.svc.UploadReport(ctx, lab.ID, bad, strings.NewReader("x"))
	assertStatus(t, err, 400)

	mismatched := upload
	mismatched.OrderID = &order.ID
	_, err = f.svc.UploadReport(ctx, lab.ID, mismatched, strings.NewReader("%PDF"))
	assertStatus(t, err, 400)

	_, err = f.svc.UploadReport(ctx, stranger.ID, upload, strings.NewReader("%PDF"))
	assertStatus(t, err, 403)

	report, err := f.svc.UploadReport(ctx, lab.ID, upload, strings.NewReader("%PDF-1.7 findings"))
	assertNoError(t, err)
	if *report.UploaderID != lab.ID || *report.FileType != models.FilePDF || *report.FileName != "diagnostics.pdf" {
		t.Fatalf("unexpected report: %+v", report)
	}

	body, opened, err := f.svc.OpenReport(ctx, owner.ID, report.ID)
	assertNoError(t, err)
	content, _ := io.ReadAll(body)
	_ = body.Close()
	if string(content) != "%PDF-1.7 findings" || opened.ID != report.ID {
		t.Fatalf("unexpected report content %q", content)
	}
	_, _, err = f.svc.OpenReport(ctx, stranger.ID, report.ID)
	assertStatus(t, err, 403)

	raw := upload
	raw.FileType = ""
	raw.FileName = "variants.json"
	inferred, err := f.svc.UploadReport(ctx, lab.ID, raw, strings.NewReader(`{"variants":[]}`))
	assertNoError(t, err)
	if *inferred.FileType != models.FileJSON {
		t.Fatalf("file type %s", *inferred.FileType)
	}
	raw.FileName = "variants.docx"
	_, err = f.svc.UploadReport(ctx, lab.ID, raw, strings.NewReader("x"))
	assertStatus(t, err, 400)
}

func TestNotificationChannels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")

	channel, err := f.svc.NotificationChannelFor(ctx, owner.ID, NotifyNewReport)
	assertNoError(t, err)
	if channel != models.DefaultNotificationChannel {
		t.Fatalf("channel %s", channel)
	}

	assertNoError(t, f.svc.SetNotificationPreference(ctx, &models.NotificationPreference{UserID: owner.ID, NewSampleEvent: "SMS"}))
	channel, err = f.svc.NotificationChannelFor(ctx, owner.ID, NotifySampleEvent)
	assertNoError(t, err)
	if channel != "SMS" {
		t.Fatalf("channel %s", channel)
	}
	channel, err = f.svc.NotificationChannelFor(ctx, owner.ID, NotifySubjectFileUpload)
	assertNoError(t, err)
	if channel != models.DefaultNotificationChannel {
		t.Fatalf("channel %s", channel)
	}
	_, err = f.svc.NotificationChannelFor(ctx, owner.ID, NotificationKind("pager"))
	assertStatus(t, err, 400)
}
