package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestUpsertServerSettings(t *testing.T) {
	store := newTestStore(t)

	settings := ServerSettings{
		ServerID:           "g1",
		BlockProfaneWords:  true,
		BlockLinks:         true,
		BlockInvites:       false,
		WarningType:        "both",
		AdminOnlyCommands:  true,
		AutoDeleteWarnings: true,
		WarningDeleteDelay: 60,
		LogViolations:      true,
	}

	if _, found, err := store.GetServerSettings(context.Background(), "g1"); err != nil || found {
		t.Fatalf("expected no row before upsert, found=%v err=%v", found, err)
	}

	if err := store.UpsertServerSettings(context.Background(), settings); err != nil {
		t.Fatalf("upsert server settings: %v", err)
	}

	settings.WarningType = "dm"
	settings.WarningDeleteDelay = 30
	if err := store.UpsertServerSettings(context.Background(), settings); err != nil {
		t.Fatalf("update server settings: %v", err)
	}

	got, found, err := store.GetServerSettings(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get server settings: %v", err)
	}
	if !found {
		t.Fatalf("expected row after upsert")
	}
	if got.WarningType != "dm" || got.WarningDeleteDelay != 30 {
		t.Fatalf("unexpected settings after update: %+v", got)
	}
	if got.BlockInvites {
		t.Fatalf("expected block_invites off")
	}
}

func TestViolationRoundTrip(t *testing.T) {
	store := newTestStore(t)

	first := Violation{
		ServerID:       "g1",
		ServerName:     "Guild One",
		UserID:         "u1",
		UserName:       "alice",
		ViolationType:  "LINK",
		Reason:         "posting links is not allowed (evil.example)",
		MessageContent: "check this out http://evil.example/x",
		Timestamp:      time.Now().Add(-time.Minute),
	}
	second := first
	second.UserID = "u2"
	second.UserName = "bob"
	second.ViolationType = "PROFANE_WORD"
	second.Timestamp = time.Now()

	if err := store.AddViolation(context.Background(), first); err != nil {
		t.Fatalf("add violation: %v", err)
	}
	if err := store.AddViolation(context.Background(), second); err != nil {
		t.Fatalf("add violation: %v", err)
	}

	recent, err := store.ListRecentViolations(context.Background(), "g1", 10)
	if err != nil {
		t.Fatalf("list violations: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(recent))
	}
	if recent[0].UserID != "u2" {
		t.Fatalf("expected newest first, got %s", recent[0].UserID)
	}
	if recent[0].ID <= recent[1].ID {
		t.Fatalf("expected monotonic ids, got %d then %d", recent[0].ID, recent[1].ID)
	}
	if recent[1].ViolationType != "LINK" || recent[1].Reason != first.Reason || recent[1].MessageContent != first.MessageContent {
		t.Fatalf("round trip mismatch: %+v", recent[1])
	}

	count, err := store.CountViolations(context.Background(), "g1")
	if err != nil {
		t.Fatalf("count violations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if other, _ := store.CountViolations(context.Background(), "g2"); other != 0 {
		t.Fatalf("expected no violations for other server, got %d", other)
	}
}

func TestViolationBoundsEnforced(t *testing.T) {
	store := newTestStore(t)

	v := Violation{
		ServerID:       "g1",
		ServerName:     "Guild One",
		UserID:         "u1",
		UserName:       "alice",
		ViolationType:  "PROFANE_WORD",
		Reason:         strings.Repeat("r", 600),
		MessageContent: strings.Repeat("m", 2500),
		Timestamp:      time.Now(),
	}
	if err := store.AddViolation(context.Background(), v); err != nil {
		t.Fatalf("add violation: %v", err)
	}

	recent, err := store.ListRecentViolations(context.Background(), "g1", 1)
	if err != nil {
		t.Fatalf("list violations: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(recent))
	}
	if len([]rune(recent[0].Reason)) != 500 {
		t.Fatalf("expected reason truncated to 500, got %d", len([]rune(recent[0].Reason)))
	}
	if len([]rune(recent[0].MessageContent)) != 2000 {
		t.Fatalf("expected content truncated to 2000, got %d", len([]rune(recent[0].MessageContent)))
	}
}
