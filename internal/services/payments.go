package services

import (
	"context"
	"errors"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

func (s *Service) InitiatePayment(ctx context.Context, actorID, subjectID string) (*models.Payment, error) {
	if _, err := s.writableSubject(ctx, actorID, subjectID); err != nil {
		return nil, err
	}
	payment := &models.Payment{SubjectID: &subjectID, Status: models.PaymentInitiated}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, FromStoreError(err, "payment")
	}
	return payment, nil
}

// CompletePayment settles an initiated payment as OK or Failed. Settled
// payments do not change again.
func (s *Service) CompletePayment(ctx context.Context, paymentID string, status models.PaymentStatus) (*models.Payment, error) {
	if status != models.PaymentOK && status != models.PaymentFailed {
		return nil, ErrBadRequest("payment can only complete as OK or Failed")
	}
	var payment *models.Payment
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.SettlePayment(ctx, paymentID, status); err != nil {
			if errors.Is(err, store.ErrConflict) {
				if current, getErr := tx.GetPayment(ctx, paymentID); getErr == nil {
					return ErrConflict("payment is already " + current.Status.Label())
				}
			}
			return err
		}
		var err error
		payment, err = tx.GetPayment(ctx, paymentID)
		return err
	})
	if err != nil {
		if StatusOf(err) != 500 {
			return nil, err
		}
		return nil, FromStoreError(err, "payment")
	}
	s.logger.InfoContext(ctx, "payment completed", "payment", paymentID, "status", status)
	return payment, nil
}
