package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"glsecurity-bot/internal/policy"
	"glsecurity-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	colorInfo  = 0x5865F2
	colorError = 0xEF4444
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx := context.Background()
	data := interaction.ApplicationCommandData()

	if interaction.GuildID == "" {
		b.respondEmbed(session, interaction, b.commandEmbed("GL Security", "This command can only be used in a server.", colorError, nil), true)
		return
	}

	if b.policy.AdminOnlyCommands() && !b.interactionPrivileged(interaction) {
		b.respondEmbed(session, interaction, b.commandEmbed("GL Security", "You need the Manage Server permission to use this command.", colorError, nil), true)
		return
	}

	switch data.Name {
	case "settings":
		b.handleSettingsCommand(ctx, session, interaction, data.Options)
	case "violations":
		b.handleViolationsCommand(ctx, session, interaction, data.Options)
	case "policy":
		b.handlePolicyCommand(session, interaction, data.Options)
	}
}

func (b *Bot) interactionPrivileged(interaction *discordgo.InteractionCreate) bool {
	member := interaction.Member
	if member != nil && member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageServer) != 0 {
		return true
	}
	userID := ""
	if member != nil && member.User != nil {
		userID = member.User.ID
	}
	return b.isPrivileged(interaction.GuildID, userID, member)
}

func (b *Bot) handleSettingsCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	action := optionString(options, "action")
	current := b.resolver.Resolve(ctx, interaction.GuildID)

	switch action {
	case "view":
		fields := []*discordgo.MessageEmbedField{
			{Name: "block_profane_words", Value: boolLabel(current.BlockProfaneWords), Inline: true},
			{Name: "block_links", Value: boolLabel(current.BlockLinks), Inline: true},
			{Name: "block_invites", Value: boolLabel(current.BlockInvites), Inline: true},
			{Name: "warning_type", Value: current.WarningType, Inline: true},
			{Name: "admin_only_commands", Value: boolLabel(current.AdminOnlyCommands), Inline: true},
			{Name: "auto_delete_warnings", Value: boolLabel(current.AutoDeleteWarnings), Inline: true},
			{Name: "warning_delete_delay", Value: fmt.Sprintf("%ds", current.WarningDeleteDelay), Inline: true},
			{Name: "log_violations", Value: boolLabel(current.LogViolations), Inline: true},
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Server settings", "Moderation settings for this server", colorInfo, fields), true)
	case "set":
		field := optionString(options, "field")
		value := optionString(options, "value")
		if field == "" || value == "" {
			b.respondEmbed(session, interaction, b.commandEmbed("Server settings", "Both field and value are required.", colorError, nil), true)
			return
		}

		updated := current
		if err := applySettingsField(&updated, field, value); err != nil {
			b.respondEmbed(session, interaction, b.commandEmbed("Server settings", "Rejected: "+err.Error(), colorError, nil), true)
			return
		}
		if err := b.resolver.Save(ctx, updated); err != nil {
			b.logger.Error("settings update failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondEmbed(session, interaction, b.commandEmbed("Server settings", "Update failed: "+err.Error(), colorError, nil), true)
			return
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Server settings", fmt.Sprintf("Set %s to %s.", field, value), colorInfo, nil), true)
	}
}

func applySettingsField(s *storage.ServerSettings, field, value string) error {
	switch field {
	case "warning_type":
		parsed, err := policy.ParseWarningType(value)
		if err != nil {
			return err
		}
		s.WarningType = string(parsed)
		return nil
	case "warning_delete_delay":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			return policy.ErrInvalidDelay
		}
		s.WarningDeleteDelay = seconds
		return nil
	}

	enabled, err := parseBool(value)
	if err != nil {
		return err
	}
	switch field {
	case "block_profane_words":
		s.BlockProfaneWords = enabled
	case "block_links":
		s.BlockLinks = enabled
	case "block_invites":
		s.BlockInvites = enabled
	case "admin_only_commands":
		s.AdminOnlyCommands = enabled
	case "auto_delete_warnings":
		s.AutoDeleteWarnings = enabled
	case "log_violations":
		s.LogViolations = enabled
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func (b *Bot) handleViolationsCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	switch optionString(options, "action") {
	case "recent":
		limit := optionInt(options, "limit")
		if limit <= 0 {
			limit = 5
		}
		if limit > 20 {
			limit = 20
		}
		records, err := b.store.ListRecentViolations(ctx, interaction.GuildID, limit)
		if err != nil {
			b.logger.Error("violation list failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondEmbed(session, interaction, b.commandEmbed("Violations", "Could not read the violation log.", colorError, nil), true)
			return
		}
		if len(records) == 0 {
			b.respondEmbed(session, interaction, b.commandEmbed("Violations", "No violations recorded.", colorInfo, nil), true)
			return
		}
		lines := make([]string, 0, len(records))
		for _, v := range records {
			lines = append(lines, fmt.Sprintf("`%s` **%s** — %s (%s)",
				v.Timestamp.Format(time.DateTime), v.ViolationType, v.UserName, v.Reason))
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Recent violations", strings.Join(lines, "\n"), colorInfo, nil), true)
	case "stats":
		report, err := b.analytics.Report(ctx, interaction.GuildID, 100)
		if err != nil {
			b.logger.Error("violation report failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondEmbed(session, interaction, b.commandEmbed("Violations", "Could not read the violation log.", colorError, nil), true)
			return
		}
		fields := []*discordgo.MessageEmbedField{
			{Name: "total", Value: strconv.FormatInt(report.Total, 10), Inline: true},
		}
		for _, violationType := range []string{"PROFANE_WORD", "LINK", "INVITE"} {
			if count := report.ByType[violationType]; count > 0 {
				fields = append(fields, &discordgo.MessageEmbedField{Name: violationType, Value: strconv.Itoa(count), Inline: true})
			}
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Violation stats", "Totals for this server", colorInfo, fields), true)
	}
}

func (b *Bot) handlePolicyCommand(session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	switch optionString(options, "action") {
	case "view":
		snapshot := b.policy.Snapshot()
		fields := []*discordgo.MessageEmbedField{
			{Name: "profane_words", Value: strconv.Itoa(len(snapshot.ProfaneWords)), Inline: true},
			{Name: "block_links", Value: boolLabel(snapshot.BlockLinks), Inline: true},
			{Name: "block_invites", Value: boolLabel(snapshot.BlockInvites), Inline: true},
			{Name: "warning_type", Value: string(snapshot.WarningType), Inline: true},
			{Name: "admin_only_commands", Value: boolLabel(snapshot.AdminOnlyCommands), Inline: true},
			{Name: "auto_delete_warnings", Value: boolLabel(snapshot.AutoDeleteWarnings), Inline: true},
			{Name: "warning_delete_delay", Value: fmt.Sprintf("%ds", snapshot.WarningDeleteDelay), Inline: true},
			{Name: "log_violations", Value: boolLabel(snapshot.LogViolations), Inline: true},
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Bot-wide defaults and word list", colorInfo, fields), true)
	case "words_add":
		word := optionString(options, "word")
		if word == "" {
			b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "A word is required.", colorError, nil), true)
			return
		}
		if !b.policy.AddProfaneWord(word) {
			b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Word already listed.", colorError, nil), true)
			return
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Word added.", colorInfo, nil), true)
	case "words_remove":
		word := optionString(options, "word")
		if word == "" || !b.policy.RemoveProfaneWord(word) {
			b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Word not found.", colorError, nil), true)
			return
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Word removed.", colorInfo, nil), true)
	case "words_list":
		words := b.policy.ProfaneWords()
		if len(words) == 0 {
			b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "The word list is empty.", colorInfo, nil), true)
			return
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "||"+strings.Join(words, ", ")+"||", colorInfo, nil), true)
	case "set":
		field := optionString(options, "field")
		value := optionString(options, "value")
		if field == "" || value == "" {
			b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Both field and value are required.", colorError, nil), true)
			return
		}
		if err := b.applyPolicyField(field, value); err != nil {
			b.respondEmbed(session, interaction, b.commandEmbed("Global policy", "Rejected: "+err.Error(), colorError, nil), true)
			return
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Global policy", fmt.Sprintf("Set %s to %s.", field, value), colorInfo, nil), true)
	}
}

func (b *Bot) applyPolicyField(field, value string) error {
	switch field {
	case "warning_type":
		return b.policy.SetWarningType(value)
	case "warning_delete_delay":
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return policy.ErrInvalidDelay
		}
		return b.policy.SetWarningDeleteDelay(seconds)
	}

	enabled, err := parseBool(value)
	if err != nil {
		return err
	}
	switch field {
	case "block_links":
		b.policy.SetBlockLinks(enabled)
	case "block_invites":
		b.policy.SetBlockInvites(enabled)
	case "admin_only_commands":
		b.policy.SetAdminOnlyCommands(enabled)
	case "auto_delete_warnings":
		b.policy.SetAutoDeleteWarnings(enabled)
	case "log_violations":
		b.policy.SetLogViolations(enabled)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}
	if ephemeral {
		response.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := session.InteractionRespond(interaction.Interaction, response); err != nil {
		b.logger.Error("interaction respond failed", zap.Error(err))
	}
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, option := range options {
		if option.Name == name {
			return option.StringValue()
		}
	}
	return ""
}

func optionInt(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	for _, option := range options {
		if option.Name == name {
			return int(option.IntValue())
		}
	}
	return 0
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected true or false, got %q", value)
	}
}

func boolLabel(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
