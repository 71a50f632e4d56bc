package bot

import (
	"context"

	"glsecurity-bot/internal/analytics"
	"glsecurity-bot/internal/config"
	"glsecurity-bot/internal/moderation"
	"glsecurity-bot/internal/policy"
	"glsecurity-bot/internal/settings"
	"glsecurity-bot/internal/storage"
	"glsecurity-bot/internal/violations"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *storage.Store
	policy    *policy.Store
	resolver  *settings.Resolver
	vlog      *violations.Logger
	analytics *analytics.Service
	session   *discordgo.Session
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, policyStore *policy.Store, resolver *settings.Resolver, violationLogger *violations.Logger, analyticsService *analytics.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers

	return &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		policy:    policyStore,
		resolver:  resolver,
		vlog:      violationLogger,
		analytics: analyticsService,
		session:   session,
	}, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	return b.registerCommands()
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}
	if msg.GuildID == "" {
		return
	}

	ctx := context.Background()
	serverSettings := b.resolver.Resolve(ctx, msg.GuildID)

	if b.isPrivileged(msg.GuildID, msg.Author.ID, msg.Member) {
		b.logger.Debug("privileged author, skipping moderation",
			zap.String("guild_id", msg.GuildID),
			zap.String("user_id", msg.Author.ID))
		return
	}

	decision := moderation.Evaluate(
		msg.Content,
		false,
		serverSettings,
		b.policy.ProfaneWords(),
		guildInvites{session: session, guildID: msg.GuildID, logger: b.logger},
	)
	if !decision.Violated() {
		return
	}

	b.logger.Info("violation detected",
		zap.String("guild_id", msg.GuildID),
		zap.String("user_id", msg.Author.ID),
		zap.String("type", string(decision.Type)),
		zap.String("reason", decision.Reason))
	b.remediate(ctx, msg, serverSettings, decision)
}

// guildInvites backs the self-invite exemption with the live invite list.
// The lookup only happens after the invite pattern has already matched.
type guildInvites struct {
	session *discordgo.Session
	guildID string
	logger  *zap.Logger
}

func (g guildInvites) IsOwnInvite(code string) bool {
	invites, err := g.session.GuildInvites(g.guildID)
	if err != nil {
		g.logger.Warn("guild invite lookup failed", zap.String("guild_id", g.guildID), zap.Error(err))
		return false
	}
	for _, invite := range invites {
		if invite != nil && invite.Code == code {
			return true
		}
	}
	return false
}

// isPrivileged reports whether the author may manage the server. Such members
// are exempt from moderation and allowed to run admin-only commands.
func (b *Bot) isPrivileged(guildID, userID string, member *discordgo.Member) bool {
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, _ = b.session.Guild(guildID)
	}
	if guild == nil {
		return false
	}
	if guild.OwnerID == userID {
		return true
	}

	if member == nil || len(member.Roles) == 0 {
		member = b.memberForUser(guildID, userID)
	}
	if member == nil {
		return false
	}

	perms := int64(0)
	roleMap := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		roleMap[role.ID] = role
		if role.ID == guild.ID {
			perms |= role.Permissions
		}
	}
	for _, roleID := range member.Roles {
		if role := roleMap[roleID]; role != nil {
			perms |= role.Permissions
		}
	}
	return perms&(discordgo.PermissionAdministrator|discordgo.PermissionManageServer) != 0
}

func (b *Bot) memberForUser(guildID, userID string) *discordgo.Member {
	member, err := b.session.State.Member(guildID, userID)
	if err == nil && member != nil {
		return member
	}
	member, _ = b.session.GuildMember(guildID, userID)
	return member
}

func (b *Bot) guildName(guildID string) string {
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, _ = b.session.Guild(guildID)
	}
	if guild == nil {
		return guildID
	}
	return guild.Name
}
