package services

import (
	"context"
	"errors"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

type FinanceTerms struct {
	UserID        string
	TestType      models.TestType
	TestAvailable bool
	Price         *int64
	Currency      models.Currency
}

type Price struct {
	Amount   int64
	Currency models.Currency
	Version  int
}

func (s *Service) requireSuperAdmin(ctx context.Context, userID string) error {
	admin, err := s.isSuperAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden("super admin required")
	}
	return nil
}

// SetFinanceSetting stores new terms for a user and test type as the next
// version. Earlier versions are kept. The user row stays locked while the
// version is allocated, so concurrent calls get distinct versions.
func (s *Service) SetFinanceSetting(ctx context.Context, creatorID string, terms FinanceTerms) (*models.FinanceSetting, error) {
	if terms.Currency == "" {
		terms.Currency = models.CurrencyEUR
	}
	if err := models.CheckEnum("test type", terms.TestType); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	if err := models.CheckEnum("currency", terms.Currency); err != nil {
		return nil, ErrBadRequest(err.Error())
	}
	if terms.Price != nil && *terms.Price < 0 {
		return nil, ErrBadRequest("price cannot be negative")
	}
	if err := s.requireSuperAdmin(ctx, creatorID); err != nil {
		return nil, err
	}
	creator := creatorID
	setting := &models.FinanceSetting{
		TestType:      terms.TestType,
		UserID:        terms.UserID,
		TestAvailable: terms.TestAvailable,
		Price:         terms.Price,
		Currency:      terms.Currency,
		CreatorID:     &creator,
	}
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.LockUser(ctx, terms.UserID); err != nil {
			return err
		}
		latest, err := tx.LatestFinanceSetting(ctx, terms.UserID, terms.TestType)
		switch {
		case errors.Is(err, store.ErrNotFound):
			setting.VersionNumber = 1
		case err != nil:
			return err
		default:
			setting.VersionNumber = latest.VersionNumber + 1
		}
		return tx.CreateFinanceSetting(ctx, setting)
	})
	if err != nil {
		return nil, FromStoreError(err, "finance setting")
	}
	s.logger.InfoContext(ctx, "finance setting stored", "user", terms.UserID, "test_type", terms.TestType, "version", setting.VersionNumber)
	return setting, nil
}

// PriceFor returns the current price of testType for userID.
func (s *Service) PriceFor(ctx context.Context, userID string, testType models.TestType) (*Price, error) {
	setting, err := s.store.LatestFinanceSetting(ctx, userID, testType)
	if err != nil {
		return nil, FromStoreError(err, "finance setting")
	}
	if !setting.TestAvailable {
		return nil, ErrForbidden(testType.Label() + " is not available")
	}
	if setting.Price == nil {
		return nil, ErrNotFound("no price agreed for " + testType.Label())
	}
	return &Price{Amount: *setting.Price, Currency: setting.Currency, Version: setting.VersionNumber}, nil
}

// BillSample attaches a sample to the finance setting it is billed under and
// records a SampleBillingChanged event.
func (s *Service) BillSample(ctx context.Context, actorID, sampleID, financeSettingID string) error {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return err
	}
	sample, err := s.store.GetSample(ctx, sampleID)
	if err != nil {
		return FromStoreError(err, "sample")
	}
	setting, err := s.store.GetFinanceSetting(ctx, financeSettingID)
	if err != nil {
		return FromStoreError(err, "finance setting")
	}
	actor := actorID
	ev := &models.Event{
		Type:      models.EventSampleBillingChanged,
		SubjectID: sample.SubjectID,
		UserID:    &actor,
		Data: eventData(map[string]interface{}{
			"sampleId":         sample.ID,
			"financeSettingId": setting.ID,
			"version":          setting.VersionNumber,
		}),
	}
	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.LinkFinanceSample(ctx, setting.ID, sample.ID); err != nil {
			return err
		}
		return tx.CreateEvent(ctx, ev)
	})
	if err != nil {
		return FromStoreError(err, "sample billing")
	}
	s.publish(ctx, ev)
	return nil
}
