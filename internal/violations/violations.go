package violations

import (
	"context"

	"glsecurity-bot/internal/storage"

	"go.uber.org/zap"
)

// Logger records detected violations. Persistence failures are logged and
// never propagated: remediation has already happened by the time a record is
// written.
type Logger struct {
	store  *storage.Store
	logger *zap.Logger
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

func (l *Logger) Log(ctx context.Context, v storage.Violation) {
	if l.store != nil {
		if err := l.store.AddViolation(ctx, v); err != nil {
			l.logger.Error("violation persist failed",
				zap.String("server_id", v.ServerID),
				zap.String("user_id", v.UserID),
				zap.Error(err))
		}
	}
	l.logger.Info("violation",
		zap.String("server_id", v.ServerID),
		zap.String("server_name", v.ServerName),
		zap.String("user_id", v.UserID),
		zap.String("user_name", v.UserName),
		zap.String("type", v.ViolationType),
		zap.String("reason", v.Reason))
}
