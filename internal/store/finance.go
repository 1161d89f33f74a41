package store

import (
	"context"

	"genetrack-backend-go/internal/models"
)

const (
	entityFinanceSetting = "finance_setting"
	entityFinanceSample  = "finance_setting_sample"
)

func validateFinanceSetting(fs *models.FinanceSetting) error {
	if err := models.CheckEnum("test type", fs.TestType); err != nil {
		return err
	}
	return models.CheckEnum("currency", fs.Currency)
}

func (s *Store) CreateFinanceSetting(ctx context.Context, fs *models.FinanceSetting) error {
	if fs.VersionNumber == 0 {
		fs.VersionNumber = 1
	}
	if err := validateFinanceSetting(fs); err != nil {
		return s.reject(entityFinanceSetting, "create", err)
	}
	s.stamp(&fs.ID, &fs.CreatedAt, &fs.UpdatedAt)
	return s.insert(ctx, entityFinanceSetting, "finance_settings", fs)
}

func (s *Store) GetFinanceSetting(ctx context.Context, id string) (*models.FinanceSetting, error) {
	return get[models.FinanceSetting](ctx, s, entityFinanceSetting, selectFrom("finance_settings")+" WHERE id = ?", id)
}

func (s *Store) ListFinanceSettings(ctx context.Context, userID string) ([]models.FinanceSetting, error) {
	return list[models.FinanceSetting](ctx, s, entityFinanceSetting,
		selectFrom("finance_settings")+" WHERE user_id = ? ORDER BY test_type, version_number", userID)
}

// LatestFinanceSetting returns the highest version for a user and test type.
func (s *Store) LatestFinanceSetting(ctx context.Context, userID string, testType models.TestType) (*models.FinanceSetting, error) {
	return get[models.FinanceSetting](ctx, s, entityFinanceSetting,
		selectFrom("finance_settings")+" WHERE user_id = ? AND test_type = ? ORDER BY version_number DESC LIMIT 1",
		userID, testType)
}

func (s *Store) UpdateFinanceSetting(ctx context.Context, fs *models.FinanceSetting) error {
	if err := validateFinanceSetting(fs); err != nil {
		return s.reject(entityFinanceSetting, "update", err)
	}
	fs.UpdatedAt = s.now()
	return s.update(ctx, entityFinanceSetting, "finance_settings", fs)
}

func (s *Store) DeleteFinanceSetting(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityFinanceSetting, "finance_settings", id)
}

// LinkFinanceSample is idempotent.
func (s *Store) LinkFinanceSample(ctx context.Context, financeSettingID, sampleID string) error {
	_, err := s.exec(ctx, entityFinanceSample, "create",
		`INSERT INTO finance_setting_samples (finance_setting_id, sample_id) VALUES (?, ?) ON CONFLICT (finance_setting_id, sample_id) DO NOTHING`,
		financeSettingID, sampleID)
	return err
}

func (s *Store) UnlinkFinanceSample(ctx context.Context, financeSettingID, sampleID string) error {
	return s.execOne(ctx, entityFinanceSample, "delete",
		`DELETE FROM finance_setting_samples WHERE finance_setting_id = ? AND sample_id = ?`, financeSettingID, sampleID)
}

func (s *Store) ListFinanceSamples(ctx context.Context, financeSettingID string) ([]models.Sample, error) {
	return list[models.Sample](ctx, s, entityFinanceSample, `
SELECT smp.* FROM samples smp
JOIN finance_setting_samples fss ON fss.sample_id = smp.id
WHERE fss.finance_setting_id = ?
ORDER BY smp.device_id`, financeSettingID)
}
