package store

import (
	"context"

	"genetrack-backend-go/internal/models"
)

const (
	entityProduct = "product"
	entityOrder   = "order"
	entitySample  = "sample"
	entityPayment = "payment"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := models.CheckEnum("product type", p.Type); err != nil {
		return s.reject(entityProduct, "create", err)
	}
	s.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return s.insert(ctx, entityProduct, "products", p)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return get[models.Product](ctx, s, entityProduct, selectFrom("products")+" WHERE id = ?", id)
}

func (s *Store) ListProducts(ctx context.Context, userID string) ([]models.Product, error) {
	return list[models.Product](ctx, s, entityProduct,
		selectFrom("products")+" WHERE user_id = ? ORDER BY created_at", userID)
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := models.CheckEnum("product type", p.Type); err != nil {
		return s.reject(entityProduct, "update", err)
	}
	p.UpdatedAt = s.now()
	return s.update(ctx, entityProduct, "products", p)
}

// DeleteProduct fails with ErrRestricted while an order references the product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityProduct, "products", id)
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	s.stamp(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return s.insert(ctx, entityOrder, "orders", o)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return get[models.Order](ctx, s, entityOrder, selectFrom("orders")+" WHERE id = ?", id)
}

func (s *Store) GetOrderByArcensusID(ctx context.Context, arcensusID int64) (*models.Order, error) {
	return get[models.Order](ctx, s, entityOrder, selectFrom("orders")+" WHERE arcensus_order_id = ?", arcensusID)
}

func (s *Store) ListOrders(ctx context.Context, subjectID string) ([]models.Order, error) {
	return list[models.Order](ctx, s, entityOrder,
		selectFrom("orders")+" WHERE subject_id = ? ORDER BY arcensus_order_id", subjectID)
}

// DeleteOrder fails with ErrRestricted while a report references the order.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entityOrder, "orders", id)
}

func (s *Store) CreateSample(ctx context.Context, sample *models.Sample) error {
	if sample.TestType == "" {
		sample.TestType = models.TestSangerOnHold
	}
	if err := models.CheckEnum("test type", sample.TestType); err != nil {
		return s.reject(entitySample, "create", err)
	}
	s.stamp(&sample.ID, &sample.CreatedAt, &sample.UpdatedAt)
	return s.insert(ctx, entitySample, "samples", sample)
}

func (s *Store) GetSample(ctx context.Context, id string) (*models.Sample, error) {
	return get[models.Sample](ctx, s, entitySample, selectFrom("samples")+" WHERE id = ?", id)
}

func (s *Store) GetSampleByDeviceID(ctx context.Context, deviceID string) (*models.Sample, error) {
	return get[models.Sample](ctx, s, entitySample, selectFrom("samples")+" WHERE device_id = ?", deviceID)
}

func (s *Store) ListSamples(ctx context.Context, subjectID string) ([]models.Sample, error) {
	return list[models.Sample](ctx, s, entitySample,
		selectFrom("samples")+" WHERE subject_id = ? ORDER BY device_id", subjectID)
}

func (s *Store) UpdateSample(ctx context.Context, sample *models.Sample) error {
	if err := models.CheckEnum("test type", sample.TestType); err != nil {
		return s.reject(entitySample, "update", err)
	}
	sample.UpdatedAt = s.now()
	return s.update(ctx, entitySample, "samples", sample)
}

func (s *Store) DeleteSample(ctx context.Context, id string) error {
	return s.deleteByID(ctx, entitySample, "samples", id)
}

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.Status == "" {
		p.Status = models.PaymentInitiated
	}
	if err := models.CheckEnum("payment status", p.Status); err != nil {
		return s.reject(entityPayment, "create", err)
	}
	s.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return s.insert(ctx, entityPayment, "payments", p)
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return get[models.Payment](ctx, s, entityPayment, selectFrom("payments")+" WHERE id = ?", id)
}

func (s *Store) ListPayments(ctx context.Context, subjectID string) ([]models.Payment, error) {
	return list[models.Payment](ctx, s, entityPayment,
		selectFrom("payments")+" WHERE subject_id = ? ORDER BY created_at", subjectID)
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	if err := models.CheckEnum("payment status", status); err != nil {
		return s.reject(entityPayment, "update", err)
	}
	return s.execOne(ctx, entityPayment, "update",
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ?`, status, s.now(), id)
}

// SettlePayment moves an Initiated payment to OK or Failed. The UPDATE only
// matches Initiated rows, so a payment settled by another transaction yields
// ErrConflict.
func (s *Store) SettlePayment(ctx context.Context, id string, status models.PaymentStatus) error {
	if status != models.PaymentOK && status != models.PaymentFailed {
		return s.reject(entityPayment, "settle", &models.EnumError{Field: "settled payment status", Value: string(status)})
	}
	n, err := s.exec(ctx, entityPayment, "settle",
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		status, s.now(), id, models.PaymentInitiated)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.GetPayment(ctx, id); err != nil {
		return err
	}
	return s.reject(entityPayment, "settle", ErrConflict)
}
