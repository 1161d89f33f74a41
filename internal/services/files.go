package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/storage"

	"github.com/google/uuid"
)

func cleanFileName(name string) (string, error) {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "", ErrBadRequest("file name required")
	}
	return name, nil
}

func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrEmpty):
		return ErrBadRequest("file is empty")
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound("file content not found")
	}
	return WrapError(err, "file storage")
}

// UploadSubjectFile stores body and records it against the subject. The
// recorded size is the number of bytes stored.
func (s *Service) UploadSubjectFile(ctx context.Context, actorID, subjectID, name string, body io.Reader, isPedigree bool) (*models.SubjectFile, error) {
	name, err := cleanFileName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.writableSubject(ctx, actorID, subjectID); err != nil {
		return nil, err
	}
	file := &models.SubjectFile{ID: uuid.NewString(), Name: name, SubjectID: subjectID, IsPedigree: isPedigree}
	key := storage.SubjectFileKey(subjectID, file.ID)
	obj, err := s.blobs.Put(ctx, key, body, "")
	if err != nil {
		return nil, storageError(err)
	}
	file.Size = obj.Size
	if err := s.store.CreateSubjectFile(ctx, file); err != nil {
		s.discard(ctx, key)
		return nil, FromStoreError(err, "subject file")
	}
	s.logger.InfoContext(ctx, "subject file stored", "file", file.ID, "subject", subjectID, "size", file.Size, "sha256", obj.SHA256)
	s.notify(ctx, &subjectID, NotifySubjectFileUpload, "file "+name+" uploaded")
	return file, nil
}

func (s *Service) OpenSubjectFile(ctx context.Context, actorID, fileID string) (io.ReadCloser, *models.SubjectFile, error) {
	file, err := s.store.GetSubjectFile(ctx, fileID)
	if err != nil {
		return nil, nil, FromStoreError(err, "subject file")
	}
	if _, err := s.GetSubject(ctx, actorID, file.SubjectID); err != nil {
		return nil, nil, err
	}
	body, _, err := s.blobs.Get(ctx, storage.SubjectFileKey(file.SubjectID, file.ID))
	if err != nil {
		return nil, nil, storageError(err)
	}
	return body, file, nil
}

func (s *Service) DeleteSubjectFile(ctx context.Context, actorID, fileID string) error {
	file, err := s.store.GetSubjectFile(ctx, fileID)
	if err != nil {
		return FromStoreError(err, "subject file")
	}
	if _, err := s.writableSubject(ctx, actorID, file.SubjectID); err != nil {
		return err
	}
	if err := s.store.DeleteSubjectFile(ctx, file.ID); err != nil {
		return FromStoreError(err, "subject file")
	}
	s.discard(ctx, storage.SubjectFileKey(file.SubjectID, file.ID))
	return nil
}

type ReportUpload struct {
	SubjectID  string
	OrderID    *string
	ReportType *models.ReportType
	TestType   *models.TestType
	FileType   models.FileType
	FileName   string
}

// UploadReport stores a lab report for a subject. A referenced order must
// belong to the same subject. Without a file type the file name extension
// decides it.
func (s *Service) UploadReport(ctx context.Context, uploaderID string, in ReportUpload, body io.Reader) (*models.Report, error) {
	if in.FileType == "" {
		ext := strings.TrimPrefix(path.Ext(in.FileName), ".")
		fileType, err := models.ParseFileType(strings.ToUpper(ext))
		if err != nil {
			return nil, ErrBadRequest(err.Error())
		}
		in.FileType = fileType
	}
	if err := models.CheckEnum("file type", in.FileType); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	if err := models.CheckOptionalEnum("report type", in.ReportType); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	if err := models.CheckOptionalEnum("test type", in.TestType); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	name, err := cleanFileName(in.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := s.writableSubject(ctx, uploaderID, in.SubjectID); err != nil {
		return nil, err
	}
	if in.OrderID != nil {
		order, err := s.store.GetOrder(ctx, *in.OrderID)
		if err != nil {
			return nil, FromStoreError(err, "order")
		}
		if order.SubjectID != in.SubjectID {
			return nil, ErrBadRequest("order belongs to another subject")
		}
	}
	uploader := uploaderID
	fileType := in.FileType
	report := &models.Report{
		ID:         uuid.NewString(),
		SubjectID:  in.SubjectID,
		UploaderID: &uploader,
		OrderID:    in.OrderID,
		ReportType: in.ReportType,
		TestType:   in.TestType,
		FileName:   &name,
		FileType:   &fileType,
	}
	key := storage.ReportKey(in.SubjectID, report.ID)
	if _, err := s.blobs.Put(ctx, key, body, fileType.ContentType()); err != nil {
		return nil, storageError(err)
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		s.discard(ctx, key)
		return nil, FromStoreError(err, "report")
	}
	s.notify(ctx, &report.SubjectID, NotifyNewReport, "report "+name+" available")
	return report, nil
}

// OpenReport returns the stored report content for readers of its subject.
func (s *Service) OpenReport(ctx context.Context, actorID, reportID string) (io.ReadCloser, *models.Report, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, nil, FromStoreError(err, "report")
	}
	if _, err := s.GetSubject(ctx, actorID, report.SubjectID); err != nil {
		return nil, nil, err
	}
	body, _, err := s.blobs.Get(ctx, storage.ReportKey(report.SubjectID, report.ID))
	if err != nil {
		return nil, nil, storageError(err)
	}
	return body, report, nil
}

func (s *Service) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "stored object not removed", "key", key, "error", err)
	}
}
