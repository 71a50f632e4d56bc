package settings

import (
	"context"

	"glsecurity-bot/internal/policy"
	"glsecurity-bot/internal/storage"

	"go.uber.org/zap"
)

// Defaults are the settings a server starts with the first time one of its
// messages is seen.
func Defaults(serverID string) storage.ServerSettings {
	return storage.ServerSettings{
		ServerID:           serverID,
		BlockProfaneWords:  true,
		BlockLinks:         true,
		BlockInvites:       true,
		WarningType:        string(policy.WarnBoth),
		AdminOnlyCommands:  true,
		AutoDeleteWarnings: true,
		WarningDeleteDelay: 60,
		LogViolations:      true,
	}
}

type Resolver struct {
	store  *storage.Store
	logger *zap.Logger
}

func NewResolver(store *storage.Store, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve loads the settings for serverID, creating and persisting a default
// row on first sight. When the store is unavailable it returns transient
// defaults without persisting, so moderation can proceed.
func (r *Resolver) Resolve(ctx context.Context, serverID string) storage.ServerSettings {
	stored, found, err := r.store.GetServerSettings(ctx, serverID)
	if err != nil {
		r.logger.Warn("settings lookup failed, using transient defaults", zap.String("server_id", serverID), zap.Error(err))
		return Defaults(serverID)
	}
	if found {
		return stored
	}

	defaults := Defaults(serverID)
	if err := r.store.UpsertServerSettings(ctx, defaults); err != nil {
		r.logger.Warn("default settings persist failed", zap.String("server_id", serverID), zap.Error(err))
	} else {
		r.logger.Info("created default settings", zap.String("server_id", serverID))
	}
	return defaults
}

// Save validates and persists an explicit settings update. The server id is
// the primary key and cannot change through this path.
func (r *Resolver) Save(ctx context.Context, s storage.ServerSettings) error {
	if _, err := policy.ParseWarningType(s.WarningType); err != nil {
		return err
	}
	if s.WarningDeleteDelay <= 0 {
		return policy.ErrInvalidDelay
	}
	return r.store.UpsertServerSettings(ctx, s)
}
