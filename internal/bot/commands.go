package bot

import "github.com/bwmarrin/discordgo"

var settingsFieldChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "block_profane_words", Value: "block_profane_words"},
	{Name: "block_links", Value: "block_links"},
	{Name: "block_invites", Value: "block_invites"},
	{Name: "warning_type", Value: "warning_type"},
	{Name: "admin_only_commands", Value: "admin_only_commands"},
	{Name: "auto_delete_warnings", Value: "auto_delete_warnings"},
	{Name: "warning_delete_delay", Value: "warning_delete_delay"},
	{Name: "log_violations", Value: "log_violations"},
}

var policyFieldChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "block_links", Value: "block_links"},
	{Name: "block_invites", Value: "block_invites"},
	{Name: "warning_type", Value: "warning_type"},
	{Name: "admin_only_commands", Value: "admin_only_commands"},
	{Name: "auto_delete_warnings", Value: "auto_delete_warnings"},
	{Name: "warning_delete_delay", Value: "warning_delete_delay"},
	{Name: "log_violations", Value: "log_violations"},
}

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "settings",
			Description: "View or change this server's moderation settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "view or set",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "view", Value: "view"},
						{Name: "set", Value: "set"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "field",
					Description: "Setting to change",
					Choices:     settingsFieldChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "New value (true/false, dm/public/both, or seconds)",
				},
			},
		},
		{
			Name:        "violations",
			Description: "Inspect recorded violations for this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "recent or stats",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "recent", Value: "recent"},
						{Name: "stats", Value: "stats"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many recent records to show",
				},
			},
		},
		{
			Name:        "policy",
			Description: "Administer the global bot policy",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "view, words_add, words_remove, words_list or set",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "view", Value: "view"},
						{Name: "words_add", Value: "words_add"},
						{Name: "words_remove", Value: "words_remove"},
						{Name: "words_list", Value: "words_list"},
						{Name: "set", Value: "set"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "word",
					Description: "Word to add or remove",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "field",
					Description: "Policy field to change",
					Choices:     policyFieldChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "New value (true/false, dm/public/both, or seconds)",
				},
			},
		},
	}

	for _, command := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", command); err != nil {
			return err
		}
	}
	return nil
}
