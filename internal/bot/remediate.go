package bot

import (
	"context"
	"fmt"
	"time"

	"glsecurity-bot/internal/moderation"
	"glsecurity-bot/internal/policy"
	"glsecurity-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// remediate executes the engine's decision: delete the offending message,
// warn the author per the server's warning type, and record the violation
// when logging is enabled. Each action is independent and best-effort.
func (b *Bot) remediate(ctx context.Context, msg *discordgo.MessageCreate, s storage.ServerSettings, decision moderation.Decision) {
	if err := b.session.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
		b.logger.Error("message delete failed",
			zap.String("channel_id", msg.ChannelID),
			zap.String("message_id", msg.ID),
			zap.Error(err))
	} else {
		b.logger.Info("message deleted",
			zap.String("guild_id", msg.GuildID),
			zap.String("user_id", msg.Author.ID))
	}

	serverName := b.guildName(msg.GuildID)
	warning := fmt.Sprintf("❌ **GL Security Bot** ❌\nYour message was removed from **%s**: **%s**.", serverName, decision.Reason)

	warningType, err := policy.ParseWarningType(s.WarningType)
	if err != nil {
		b.logger.Warn("unknown warning type, falling back to both", zap.String("value", s.WarningType))
		warningType = policy.WarnBoth
	}

	if warningType == policy.WarnDM || warningType == policy.WarnBoth {
		b.sendDMWarning(msg.Author.ID, warning)
	}
	if warningType == policy.WarnPublic || warningType == policy.WarnBoth {
		b.sendPublicWarning(msg, s, warning)
	}

	if s.LogViolations {
		b.vlog.Log(ctx, storage.Violation{
			ServerID:       msg.GuildID,
			ServerName:     serverName,
			UserID:         msg.Author.ID,
			UserName:       msg.Author.Username,
			ViolationType:  string(decision.Type),
			Reason:         decision.Reason,
			MessageContent: decision.Content,
			Timestamp:      time.Now(),
		})
	}
}

func (b *Bot) sendDMWarning(userID, warning string) {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		b.logger.Error("dm channel open failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if _, err := b.session.ChannelMessageSend(channel.ID, warning); err != nil {
		b.logger.Error("dm warning failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// sendPublicWarning posts an in-channel warning mentioning the author. Only
// text and announcement channels receive public warnings. When auto-delete is
// on, the warning itself is removed after the configured delay.
func (b *Bot) sendPublicWarning(msg *discordgo.MessageCreate, s storage.ServerSettings, warning string) {
	channel, err := b.session.State.Channel(msg.ChannelID)
	if err != nil || channel == nil {
		channel, err = b.session.Channel(msg.ChannelID)
		if err != nil || channel == nil {
			b.logger.Error("channel lookup failed", zap.String("channel_id", msg.ChannelID), zap.Error(err))
			return
		}
	}
	if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews {
		return
	}

	sent, err := b.session.ChannelMessageSend(msg.ChannelID, msg.Author.Mention()+", "+warning)
	if err != nil {
		b.logger.Error("public warning failed", zap.String("channel_id", msg.ChannelID), zap.Error(err))
		return
	}

	if !s.AutoDeleteWarnings {
		return
	}
	delay := s.WarningDeleteDelay
	if delay <= 0 {
		delay = 60
	}
	go func() {
		time.Sleep(time.Duration(delay) * time.Second)
		if err := b.session.ChannelMessageDelete(sent.ChannelID, sent.ID); err != nil {
			b.logger.Warn("warning auto delete failed",
				zap.String("channel_id", sent.ChannelID),
				zap.String("message_id", sent.ID),
				zap.Error(err))
		}
	}()
}
