package services

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestAPITokenUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	other := f.user(t, "other@example.test")

	_, _, err := f.svc.IssueToken(ctx, TokenRequest{UserID: owner.ID})
	assertStatus(t, err, 400)
	_, _, err = f.svc.IssueToken(ctx, TokenRequest{UserID: "00000000-0000-0000-0000-000000000000", TokenType: "api"})
	assertStatus(t, err, 400)

	credential, tok, err := f.svc.IssueToken(ctx, TokenRequest{UserID: owner.ID, TokenType: "api", SentTo: "lims@example.test", Note: ptr("lims import")})
	assertNoError(t, err)
	if !strings.HasPrefix(credential, tok.ID+".") || strings.Contains(tok.HashedToken, strings.TrimPrefix(credential, tok.ID+".")) {
		t.Fatalf("unexpected credential %q for token %+v", credential, tok)
	}
	if !tok.ExpiresAt.Equal(f.clock.Now().Add(24 * time.Hour)) {
		t.Fatalf("expiry %v", tok.ExpiresAt)
	}

	used, err := f.svc.UseToken(ctx, credential, "samples.import", map[string]interface{}{"rows": 12})
	assertNoError(t, err)
	if used.ID != tok.ID {
		t.Fatalf("used token %s", used.ID)
	}
	f.clock.Advance(time.Second)
	_, err = f.svc.UseToken(ctx, tok.ID+".wrong", "samples.import", nil)
	assertStatus(t, err, 401)
	_, err = f.svc.UseToken(ctx, "garbage", "samples.import", nil)
	assertStatus(t, err, 401)
	_, err = f.svc.UseToken(ctx, "lims-import.secret", "samples.import", nil)
	assertStatus(t, err, 401)
	_, err = f.svc.UseToken(ctx, "00000000-0000-0000-0000-000000000000.secret", "samples.import", nil)
	assertStatus(t, err, 401)

	assertStatus(t, f.svc.DisableToken(ctx, other.ID, tok.ID), 403)
	assertNoError(t, f.svc.DisableToken(ctx, owner.ID, tok.ID))
	f.clock.Advance(time.Second)
	_, err = f.svc.UseToken(ctx, credential, "samples.import", nil)
	assertStatus(t, err, 401)

	logs, err := f.store.ListAccessLogs(ctx, tok.ID)
	assertNoError(t, err)
	if len(logs) != 3 {
		t.Fatalf("expected 3 access log entries, got %d", len(logs))
	}
	if !logs[0].Success || logs[1].Success || logs[2].Success {
		t.Fatalf("unexpected outcomes: %v %v %v", logs[0].Success, logs[1].Success, logs[2].Success)
	}
	if logs[2].Comment == nil || *logs[2].Comment != "token disabled" {
		t.Fatalf("unexpected comment on disabled use: %v", logs[2].Comment)
	}
	if string(logs[0].Data.JSONText) != `{"rows":12}` {
		t.Fatalf("unexpected log data %s", logs[0].Data.JSONText)
	}
}

func TestAPITokensExpire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.test")
	credential, tok, err := f.svc.IssueToken(ctx, TokenRequest{UserID: owner.ID, TokenType: "api"})
	assertNoError(t, err)

	f.clock.Advance(25 * time.Hour)
	_, err = f.svc.UseToken(ctx, credential, "reports.list", nil)
	assertStatus(t, err, 401)

	n, err := f.svc.SweepExpiredTokens(ctx)
	assertNoError(t, err)
	if n != 1 {
		t.Fatalf("expected one token disabled, got %d", n)
	}
	reloaded, err := f.store.GetToken(ctx, tok.ID)
	assertNoError(t, err)
	if !reloaded.Disabled {
		t.Fatal("expired token still enabled")
	}
	n, err = f.svc.SweepExpiredTokens(ctx)
	assertNoError(t, err)
	if n != 0 {
		t.Fatalf("second sweep disabled %d", n)
	}
}

func TestRunTokenSweeperStopsWithContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunTokenSweeper(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
