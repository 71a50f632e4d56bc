package analytics

import (
	"context"
	"testing"
	"time"

	"glsecurity-bot/internal/storage"
)

func TestReport(t *testing.T) {
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	base := storage.Violation{
		ServerID:   "g1",
		ServerName: "Guild One",
		UserID:     "u1",
		UserName:   "alice",
		Timestamp:  time.Now(),
	}
	for _, violationType := range []string{"LINK", "LINK", "PROFANE_WORD"} {
		v := base
		v.ViolationType = violationType
		if err := store.AddViolation(context.Background(), v); err != nil {
			t.Fatalf("add violation: %v", err)
		}
	}

	report, err := New(store).Report(context.Background(), "g1", 100)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Total != 3 {
		t.Fatalf("expected total 3, got %d", report.Total)
	}
	if report.ByType["LINK"] != 2 || report.ByType["PROFANE_WORD"] != 1 {
		t.Fatalf("unexpected breakdown: %v", report.ByType)
	}
}
