package policy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")

	store := Load(path, zap.NewNop())
	snapshot := store.Snapshot()
	if snapshot.WarningType != WarnBoth || snapshot.WarningDeleteDelay != 60 || !snapshot.BlockLinks {
		t.Fatalf("unexpected defaults: %+v", snapshot)
	}
	if len(snapshot.ProfaneWords) == 0 {
		t.Fatalf("expected built-in word list")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected policy file written: %v", err)
	}
	var parsed Global
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("written file is not valid json: %v", err)
	}
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")
	partial := `{"profane_words":["badword"],"block_links":false}`
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	snapshot := Load(path, zap.NewNop()).Snapshot()
	if snapshot.BlockLinks {
		t.Fatalf("expected explicit block_links=false kept")
	}
	if !snapshot.BlockInvites || !snapshot.LogViolations {
		t.Fatalf("expected missing fields backfilled: %+v", snapshot)
	}
	if snapshot.WarningDeleteDelay != 60 {
		t.Fatalf("expected default delay, got %d", snapshot.WarningDeleteDelay)
	}
	if len(snapshot.ProfaneWords) != 1 || snapshot.ProfaneWords[0] != "badword" {
		t.Fatalf("expected file word list kept, got %v", snapshot.ProfaneWords)
	}
}

func TestLoadRewritesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	snapshot := Load(path, zap.NewNop()).Snapshot()
	if snapshot.WarningType != WarnBoth {
		t.Fatalf("expected defaults after corrupt load, got %+v", snapshot)
	}

	reloaded := Load(path, zap.NewNop()).Snapshot()
	if reloaded.WarningType != WarnBoth || reloaded.WarningDeleteDelay != 60 {
		t.Fatalf("expected rewritten file to parse, got %+v", reloaded)
	}
}

func TestInvalidUpdatesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")
	store := Load(path, zap.NewNop())

	if err := store.SetWarningDeleteDelay(-5); err != ErrInvalidDelay {
		t.Fatalf("expected ErrInvalidDelay, got %v", err)
	}
	if err := store.SetWarningType("loud"); err != ErrInvalidWarningType {
		t.Fatalf("expected ErrInvalidWarningType, got %v", err)
	}

	snapshot := store.Snapshot()
	if snapshot.WarningDeleteDelay != 60 || snapshot.WarningType != WarnBoth {
		t.Fatalf("rejected updates must keep prior values: %+v", snapshot)
	}
}

func TestMutationsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")
	store := Load(path, zap.NewNop())

	if !store.AddProfaneWord("Zzz") {
		t.Fatalf("expected word added")
	}
	if store.AddProfaneWord("zzz") {
		t.Fatalf("expected duplicate rejected")
	}
	if err := store.SetWarningType("dm"); err != nil {
		t.Fatalf("set warning type: %v", err)
	}
	if err := store.SetWarningDeleteDelay(15); err != nil {
		t.Fatalf("set delay: %v", err)
	}
	store.SetBlockLinks(false)

	reloaded := Load(path, zap.NewNop()).Snapshot()
	if reloaded.WarningType != WarnDM || reloaded.WarningDeleteDelay != 15 || reloaded.BlockLinks {
		t.Fatalf("mutations not persisted: %+v", reloaded)
	}
	found := false
	for _, word := range reloaded.ProfaneWords {
		if word == "zzz" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected added word persisted")
	}

	if !store.RemoveProfaneWord("zzz") {
		t.Fatalf("expected word removed")
	}
	if store.RemoveProfaneWord("zzz") {
		t.Fatalf("expected missing word not removed")
	}
}
