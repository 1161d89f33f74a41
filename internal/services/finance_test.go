package services

import (
	"context"
	"testing"

	"genetrack-backend-go/internal/models"
	"genetrack-backend-go/internal/store"
)

func TestFinanceSettingsAreVersioned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "finance@example.test")
	clinic := f.user(t, "clinic@example.test")

	terms := FinanceTerms{UserID: clinic.ID, TestType: models.TestWholeGenomeSequencing, TestAvailable: true, Price: ptr(int64(120000))}
	_, err := f.svc.SetFinanceSetting(ctx, clinic.ID, terms)
	assertStatus(t, err, 403)

	first, err := f.svc.SetFinanceSetting(ctx, admin.ID, terms)
	assertNoError(t, err)
	if first.VersionNumber != 1 || first.Currency != models.CurrencyEUR || *first.CreatorID != admin.ID {
		t.Fatalf("unexpected first version: %+v", first)
	}
	terms.Price = ptr(int64(99000))
	terms.Currency = models.CurrencyUSD
	second, err := f.svc.SetFinanceSetting(ctx, admin.ID, terms)
	assertNoError(t, err)
	if second.VersionNumber != 2 {
		t.Fatalf("version %d", second.VersionNumber)
	}

	price, err := f.svc.PriceFor(ctx, clinic.ID, models.TestWholeGenomeSequencing)
	assertNoError(t, err)
	if price.Amount != 99000 || price.Currency != models.CurrencyUSD || price.Version != 2 {
		t.Fatalf("unexpected price: %+v", price)
	}
	_, err = f.svc.PriceFor(ctx, clinic.ID, models.TestWholeExomeSequencing)
	assertStatus(t, err, 404)

	_, err = f.svc.SetFinanceSetting(ctx, admin.ID, FinanceTerms{UserID: clinic.ID, TestType: models.TestWholeExomeSequencing, TestAvailable: false})
	assertNoError(t, err)
	_, err = f.svc.PriceFor(ctx, clinic.ID, models.TestWholeExomeSequencing)
	assertStatus(t, err, 403)

	_, err = f.svc.SetFinanceSetting(ctx, admin.ID, FinanceTerms{UserID: clinic.ID, TestType: models.TestSangerOnHold, TestAvailable: true})
	assertNoError(t, err)
	_, err = f.svc.PriceFor(ctx, clinic.ID, models.TestSangerOnHold)
	assertStatus(t, err, 404)

	_, err = f.svc.SetFinanceSetting(ctx, admin.ID, FinanceTerms{UserID: clinic.ID, TestType: models.TestSangerOnHold, Price: ptr(int64(-1))})
	assertStatus(t, err, 400)
	_, err = f.svc.SetFinanceSetting(ctx, admin.ID, FinanceTerms{UserID: clinic.ID, TestType: models.TestSangerOnHold, Currency: models.Currency("GBP")})
	assertStatus(t, err, 400)

	_, err = f.svc.SetFinanceSetting(ctx, admin.ID, FinanceTerms{UserID: "00000000-0000-0000-0000-000000000000", TestType: models.TestSangerOnHold})
	assertStatus(t, err, 404)

	history, err := f.store.ListFinanceSettings(ctx, clinic.ID)
	assertNoError(t, err)
	if len(history) != 4 {
		t.Fatalf("expected 4 stored versions, got %d", len(history))
	}
}

func TestBillSample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "finance@example.test")
	clinic := f.user(t, "clinic@example.test")
	sub := f.subject(t, clinic)
	sample, err := f.svc.RegisterSample(ctx, "DEV-900", models.TestWholeGenomeSequencing)
	assertNoError(t, err)
	_, err = f.svc.AssignSample(ctx, clinic.ID, sample.ID, sub.ID)
	assertNoError(t, err)
	setting, err := f.svc.SetFinanceSetting(ctx, admin.ID, FinanceTerms{UserID: clinic.ID, TestType: models.TestWholeGenomeSequencing, TestAvailable: true, Price: ptr(int64(1))})
	assertNoError(t, err)

	assertStatus(t, f.svc.BillSample(ctx, clinic.ID, sample.ID, setting.ID), 403)
	assertNoError(t, f.svc.BillSample(ctx, admin.ID, sample.ID, setting.ID))
	assertNoError(t, f.svc.BillSample(ctx, admin.ID, sample.ID, setting.ID))

	billed, err := f.store.ListFinanceSamples(ctx, setting.ID)
	assertNoError(t, err)
	if len(billed) != 1 || billed[0].ID != sample.ID {
		t.Fatalf("unexpected billed samples: %+v", billed)
	}
	evs, err := f.store.ListEvents(ctx, store.EventFilter{SubjectID: sub.ID, Type: models.EventSampleBillingChanged})
	assertNoError(t, err)
	if len(evs) != 2 {
		t.Fatalf("expected two billing events, got %d", len(evs))
	}
}
