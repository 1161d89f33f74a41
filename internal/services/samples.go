package services

import (
	"context"
	"math"
	"strings"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

// RegisterSample records a collection device. Without a test type the sample
// waits as SangerOnHold.
func (s *Service) RegisterSample(ctx context.Context, deviceID string, testType models.TestType) (*models.Sample, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrBadRequest("device id required")
	}
	sample := &models.Sample{DeviceID: deviceID, TestType: testType}
	if err := s.store.CreateSample(ctx, sample); err != nil {
		return nil, FromStoreError(err, "sample")
	}
	return sample, nil
}

func (s *Service) AssignSample(ctx context.Context, actorID, sampleID, subjectID string) (*models.Sample, error) {
	if _, err := s.editableSubject(ctx, actorID, subjectID); err != nil {
		return nil, err
	}
	sample, err := s.store.GetSample(ctx, sampleID)
	if err != nil {
		return nil, FromStoreError(err, "sample")
	}
	if sample.SubjectID != nil {
		if *sample.SubjectID == subjectID {
			return sample, nil
		}
		return nil, ErrConflict("sample is assigned to another subject")
	}
	sample.SubjectID = &subjectID
	if err := s.store.UpdateSample(ctx, sample); err != nil {
		return nil, FromStoreError(err, "sample")
	}
	return sample, nil
}

// sampleForWrite loads a sample and, when it belongs to a subject, checks
// that actorID may write that subject.
func (s *Service) sampleForWrite(ctx context.Context, actorID, sampleID string) (*models.Sample, error) {
	sample, err := s.store.GetSample(ctx, sampleID)
	if err != nil {
		return nil, FromStoreError(err, "sample")
	}
	if sample.SubjectID != nil {
		if _, err := s.writableSubject(ctx, actorID, *sample.SubjectID); err != nil {
			return nil, err
		}
	}
	return sample, nil
}

// ChangeSampleTestType records a SampleTestTypeChanged event when the test
// type actually changes.
func (s *Service) ChangeSampleTestType(ctx context.Context, actorID, sampleID string, testType models.TestType) (*models.Sample, error) {
	if err := models.CheckEnum("test type", testType); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	sample, err := s.sampleForWrite(ctx, actorID, sampleID)
	if err != nil {
		return nil, err
	}
	if sample.TestType == testType {
		return sample, nil
	}
	previous := sample.TestType
	sample.TestType = testType
	actor := actorID
	ev := &models.Event{
		Type:      models.EventSampleTestTypeChanged,
		SubjectID: sample.SubjectID,
		UserID:    &actor,
		Data: eventData(map[string]interface{}{
			"sampleId": sample.ID,
			"deviceId": sample.DeviceID,
			"from":     previous,
			"to":       testType,
		}),
	}
	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateSample(ctx, sample); err != nil {
			return err
		}
		return tx.CreateEvent(ctx, ev)
	})
	if err != nil {
		return nil, FromStoreError(err, "sample")
	}
	s.publish(ctx, ev)
	s.notify(ctx, sample.SubjectID, NotifySampleEvent, "sample test type changed")
	return sample, nil
}

func (s *Service) RequestPickup(ctx context.Context, actorID, sampleID string, comment *string) (*models.Event, error) {
	sample, err := s.sampleForWrite(ctx, actorID, sampleID)
	if err != nil {
		return nil, err
	}
	if sample.SubjectID == nil {
		return nil, ErrBadRequest("sample is not assigned to a subject")
	}
	actor := actorID
	ev := &models.Event{
		Type:      models.EventSamplePickupRequested,
		SubjectID: sample.SubjectID,
		UserID:    &actor,
		Comment:   comment,
		Data:      eventData(map[string]interface{}{"sampleId": sample.ID, "deviceId": sample.DeviceID}),
	}
	if err := s.store.CreateEvent(ctx, ev); err != nil {
		return nil, FromStoreError(err, "event")
	}
	s.publish(ctx, ev)
	s.notify(ctx, sample.SubjectID, NotifySampleEvent, "sample pickup requested")
	return ev, nil
}

// AddProduct records a product bought by userID. A linked payment must have
// completed.
func (s *Service) AddProduct(ctx context.Context, userID string, productType models.ProductType, paymentID *string) (*models.Product, error) {
	if err := models.CheckEnum("product type", productType); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	if paymentID != nil {
		payment, err := s.store.GetPayment(ctx, *paymentID)
		if err != nil {
			return nil, FromStoreError(err, "payment")
		}
		if payment.Status != models.PaymentOK {
			return nil, ErrBadRequest("payment has not completed")
		}
	}
	product := &models.Product{Type: productType, PaymentID: paymentID, UserID: userID}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, FromStoreError(err, "product")
	}
	return product, nil
}

// PlaceOrder uses one of actorID's products for a subject under the given
// external order number.
func (s *Service) PlaceOrder(ctx context.Context, actorID, subjectID, productID string, arcensusOrderID int64) (*models.Order, error) {
	if arcensusOrderID <= 0 {
		return nil, ErrBadRequest("order number must be positive")
	}
	if arcensusOrderID > math.MaxInt32 {
		return nil, ErrBadRequest("order number out of range")
	}
	if _, err := s.writableSubject(ctx, actorID, subjectID); err != nil {
		return nil, err
	}
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, FromStoreError(err, "product")
	}
	if product.UserID != actorID {
		return nil, ErrForbidden("product belongs to another user")
	}
	order := &models.Order{ArcensusOrderID: arcensusOrderID, SubjectID: subjectID, ProductID: productID}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, FromStoreError(err, "order")
	}
	s.logger.InfoContext(ctx, "order placed", "order", order.ID, "subject", subjectID, "arcensus_order_id", arcensusOrderID)
	return order, nil
}
