package storage

import (
	"context"
	"time"
)

const (
	maxReasonLen  = 500
	maxContentLen = 2000
)

type Violation struct {
	ID             int64
	ServerID       string
	ServerName     string
	UserID         string
	UserName       string
	ViolationType  string
	Reason         string
	MessageContent string
	Timestamp      time.Time
}

// AddViolation appends one violation record. Reason and message content are
// truncated to the column bounds; sqlite does not enforce VARCHAR lengths.
func (s *Store) AddViolation(ctx context.Context, v Violation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO violations (server_id, server_name, user_id, user_name, violation_type, reason, message_content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.ServerID,
		v.ServerName,
		v.UserID,
		v.UserName,
		v.ViolationType,
		truncate(v.Reason, maxReasonLen),
		truncate(v.MessageContent, maxContentLen),
		v.Timestamp.Unix(),
	)
	return err
}

func (s *Store) ListRecentViolations(ctx context.Context, serverID string, limit int) ([]Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, server_id, server_name, user_id, user_name, violation_type,
		COALESCE(reason, ''), COALESCE(message_content, ''), timestamp
		FROM violations
		WHERE server_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, serverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []Violation
	for rows.Next() {
		var v Violation
		var ts int64
		if err := rows.Scan(&v.ID, &v.ServerID, &v.ServerName, &v.UserID, &v.UserName, &v.ViolationType, &v.Reason, &v.MessageContent, &ts); err != nil {
			return nil, err
		}
		v.Timestamp = time.Unix(ts, 0)
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

func (s *Store) CountViolations(ctx context.Context, serverID string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM violations WHERE server_id = ?`, serverID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
