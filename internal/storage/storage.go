package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

type ServerSettings struct {
	ServerID           string
	BlockProfaneWords  bool
	BlockLinks         bool
	BlockInvites       bool
	WarningType        string
	AdminOnlyCommands  bool
	AutoDeleteWarnings bool
	WarningDeleteDelay int
	LogViolations      bool
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) Migrate() error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(path.Join("migrations", file))
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			if isIgnorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
	}
	return nil
}

// GetServerSettings returns the stored settings row for serverID. found is
// false when the server has never been seen.
func (s *Store) GetServerSettings(ctx context.Context, serverID string) (ServerSettings, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT block_profane_words, block_links, block_invites, warning_type,
		admin_only_commands, auto_delete_warnings, warning_delete_delay, log_violations
		FROM server_settings WHERE server_id = ?`, serverID)

	result := ServerSettings{ServerID: serverID}
	var profane, links, invites, adminOnly, autoDelete, logViolations int
	err := row.Scan(
		&profane,
		&links,
		&invites,
		&result.WarningType,
		&adminOnly,
		&autoDelete,
		&result.WarningDeleteDelay,
		&logViolations,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ServerSettings{}, false, nil
		}
		return ServerSettings{}, false, err
	}
	result.BlockProfaneWords = profane == 1
	result.BlockLinks = links == 1
	result.BlockInvites = invites == 1
	result.AdminOnlyCommands = adminOnly == 1
	result.AutoDeleteWarnings = autoDelete == 1
	result.LogViolations = logViolations == 1
	return result, true, nil
}

func (s *Store) UpsertServerSettings(ctx context.Context, settings ServerSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO server_settings (
			server_id, block_profane_words, block_links, block_invites, warning_type,
			admin_only_commands, auto_delete_warnings, warning_delete_delay, log_violations
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(server_id) DO UPDATE SET
			block_profane_words = excluded.block_profane_words,
			block_links = excluded.block_links,
			block_invites = excluded.block_invites,
			warning_type = excluded.warning_type,
			admin_only_commands = excluded.admin_only_commands,
			auto_delete_warnings = excluded.auto_delete_warnings,
			warning_delete_delay = excluded.warning_delete_delay,
			log_violations = excluded.log_violations
	`,
		settings.ServerID,
		boolToInt(settings.BlockProfaneWords),
		boolToInt(settings.BlockLinks),
		boolToInt(settings.BlockInvites),
		settings.WarningType,
		boolToInt(settings.AdminOnlyCommands),
		boolToInt(settings.AutoDeleteWarnings),
		settings.WarningDeleteDelay,
		boolToInt(settings.LogViolations),
	)
	return err
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isIgnorableMigrationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "duplicate column name") || strings.Contains(message, "already exists")
}
