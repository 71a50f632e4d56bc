package policy

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type WarningType string

const (
	WarnDM     WarningType = "dm"
	WarnPublic WarningType = "public"
	WarnBoth   WarningType = "both"
)

var ErrInvalidWarningType = errors.New("warning type must be dm, public or both")
var ErrInvalidDelay = errors.New("warning delete delay must be greater than zero")

func ParseWarningType(value string) (WarningType, error) {
	switch WarningType(strings.ToLower(value)) {
	case WarnDM:
		return WarnDM, nil
	case WarnPublic:
		return WarnPublic, nil
	case WarnBoth:
		return WarnBoth, nil
	default:
		return "", ErrInvalidWarningType
	}
}

// Global bot policy, persisted as a human-editable JSON file. Missing fields
// on load are backfilled with defaults; an unreadable or corrupt file is
// replaced with a default one.
type Global struct {
	ProfaneWords       []string    `json:"profane_words"`
	BlockLinks         bool        `json:"block_links"`
	BlockInvites       bool        `json:"block_invites"`
	WarningType        WarningType `json:"warning_type"`
	AdminOnlyCommands  bool        `json:"admin_only_commands"`
	AutoDeleteWarnings bool        `json:"auto_delete_warnings"`
	WarningDeleteDelay int         `json:"warning_delete_delay"`
	LogViolations      bool        `json:"log_violations"`
}

func DefaultGlobal() Global {
	return Global{
		ProfaneWords: []string{
			"puta", "caralho", "fodase", "arrombado", "viado", "cuzao",
			"vadia", "merda", "desgraça", "inferno", "corno", "buceta",
			"filho da puta", "porra", "cuzinho", "maldito", "idiota", "retardado",
			"cabra da peste", "putz", "cacete", "bosta", "poha", "pqp",
			"foda", "vtnc", "vsf", "krl", "fdp", "gay", "lésbica", "bicha",
			"traveco", "sapatao", "mongolóide", "deficiente", "aleijado",
			"lixo",
		},
		BlockLinks:         true,
		BlockInvites:       true,
		WarningType:        WarnBoth,
		AdminOnlyCommands:  true,
		AutoDeleteWarnings: true,
		WarningDeleteDelay: 60,
		LogViolations:      true,
	}
}

type Store struct {
	mu     sync.RWMutex
	path   string
	data   Global
	logger *zap.Logger
}

// Load reads the policy file at path, creating it with defaults when absent
// or unreadable. The returned store is safe for concurrent use.
func Load(path string, logger *zap.Logger) *Store {
	store := &Store{path: path, data: DefaultGlobal(), logger: logger}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("policy file not found, creating defaults", zap.String("path", path))
		} else {
			logger.Error("policy file unreadable, rewriting defaults", zap.String("path", path), zap.Error(err))
		}
		store.save()
		return store
	}

	var onDisk fileData
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		logger.Error("policy file corrupt, rewriting defaults", zap.String("path", path), zap.Error(err))
		store.save()
		return store
	}

	store.data = onDisk.merge(DefaultGlobal())
	logger.Info("policy loaded", zap.String("path", path), zap.Int("profane_words", len(store.data.ProfaneWords)))
	return store
}

// fileData mirrors Global with pointer fields so that fields added after a
// file was first written can be told apart from explicit zero values.
type fileData struct {
	ProfaneWords       []string `json:"profane_words"`
	BlockLinks         *bool    `json:"block_links"`
	BlockInvites       *bool    `json:"block_invites"`
	WarningType        *string  `json:"warning_type"`
	AdminOnlyCommands  *bool    `json:"admin_only_commands"`
	AutoDeleteWarnings *bool    `json:"auto_delete_warnings"`
	WarningDeleteDelay *int     `json:"warning_delete_delay"`
	LogViolations      *bool    `json:"log_violations"`
}

func (f fileData) merge(defaults Global) Global {
	result := defaults
	if f.ProfaneWords != nil {
		result.ProfaneWords = f.ProfaneWords
	}
	if f.BlockLinks != nil {
		result.BlockLinks = *f.BlockLinks
	}
	if f.BlockInvites != nil {
		result.BlockInvites = *f.BlockInvites
	}
	if f.WarningType != nil {
		if parsed, err := ParseWarningType(*f.WarningType); err == nil {
			result.WarningType = parsed
		}
	}
	if f.AdminOnlyCommands != nil {
		result.AdminOnlyCommands = *f.AdminOnlyCommands
	}
	if f.AutoDeleteWarnings != nil {
		result.AutoDeleteWarnings = *f.AutoDeleteWarnings
	}
	if f.WarningDeleteDelay != nil && *f.WarningDeleteDelay > 0 {
		result.WarningDeleteDelay = *f.WarningDeleteDelay
	}
	if f.LogViolations != nil {
		result.LogViolations = *f.LogViolations
	}
	return result
}

// Snapshot returns a copy of the current policy. The profane word slice is
// copied so callers can iterate without holding the lock.
func (s *Store) Snapshot() Global {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := s.data
	data.ProfaneWords = append([]string(nil), s.data.ProfaneWords...)
	return data
}

func (s *Store) ProfaneWords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.data.ProfaneWords...)
}

func (s *Store) AdminOnlyCommands() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.AdminOnlyCommands
}

func (s *Store) AddProfaneWord(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.ProfaneWords {
		if existing == word {
			return false
		}
	}
	s.data.ProfaneWords = append(s.data.ProfaneWords, word)
	s.save()
	return true
}

func (s *Store) RemoveProfaneWord(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.data.ProfaneWords {
		if existing == word {
			s.data.ProfaneWords = append(s.data.ProfaneWords[:i], s.data.ProfaneWords[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

func (s *Store) SetBlockLinks(value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.BlockLinks = value
	s.save()
}

func (s *Store) SetBlockInvites(value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.BlockInvites = value
	s.save()
}

func (s *Store) SetWarningType(value string) error {
	parsed, err := ParseWarningType(value)
	if err != nil {
		s.logger.Warn("rejected warning type update", zap.String("value", value))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.WarningType = parsed
	s.save()
	return nil
}

func (s *Store) SetAdminOnlyCommands(value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AdminOnlyCommands = value
	s.save()
}

func (s *Store) SetAutoDeleteWarnings(value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AutoDeleteWarnings = value
	s.save()
}

func (s *Store) SetWarningDeleteDelay(seconds int) error {
	if seconds <= 0 {
		s.logger.Warn("rejected warning delete delay update", zap.Int("seconds", seconds))
		return ErrInvalidDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.WarningDeleteDelay = seconds
	s.save()
	return nil
}

func (s *Store) SetLogViolations(value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LogViolations = value
	s.save()
}

// save persists the current policy synchronously. Callers must hold the lock
// (Load calls it before the store is shared).
func (s *Store) save() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.logger.Error("policy encode failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.logger.Error("policy save failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	s.logger.Info("policy saved", zap.String("path", s.path))
}
