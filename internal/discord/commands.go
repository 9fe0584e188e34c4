package discord

import "github.com/bwmarrin/discordgo"

// Command names after flattening subcommands.
const (
	cmdTimezoneSet      = "timezone set"
	cmdTimezoneCurrent  = "timezone current"
	cmdTimezoneClear    = "timezone clear"
	cmdTimeIn           = "timein"
	cmdTimeAt           = "timeat"
	cmdTime             = "time"
	cmdTimeMessageSend  = "timemessage send"
	cmdTimeMessageClear = "timemessage clear"
)

// Option names.
const (
	optTimezone = "timezone"
	optUser     = "user"
	optChannel  = "channel"
)

// maxChoices is the platform limit on autocomplete choices.
const maxChoices = 25

// Commands returns the application commands the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	guildOnly := false
	manageServer := int64(discordgo.PermissionManageServer)

	timezoneOpt := &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         optTimezone,
		Description:  "An IANA timezone, e.g. America/New_York.",
		Required:     true,
		Autocomplete: true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:         "timezone",
			Description:  "Manage your timezone.",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set your timezone.",
					Options: []*discordgo.ApplicationCommandOption{
						timezoneOpt,
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        optUser,
							Description: "The user to set the timezone for. (Only available to staff)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "current",
					Description: "Check your current timezone.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Clear your timezone.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        optUser,
							Description: "The user to clear. (Only available to staff)",
						},
					},
				},
			},
		},
		{
			Name:         cmdTimeIn,
			Description:  "Get the current time in a timezone.",
			DMPermission: &guildOnly,
			Options:      []*discordgo.ApplicationCommandOption{timezoneOpt},
		},
		{
			Name:         cmdTimeAt,
			Description:  "Get the current time of a user.",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        optUser,
					Description: "The user to get the time.",
					Required:    true,
				},
			},
		},
		{
			Name:         cmdTime,
			Description:  "Get everyone's time in the server.",
			DMPermission: &guildOnly,
		},
		{
			Name:                     "timemessage",
			Description:              "Manage the persistent time message.",
			DMPermission:             &guildOnly,
			DefaultMemberPermissions: &manageServer,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "send",
					Description: "Send a new persistent time message.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         optChannel,
							Description:  "The channel to send the message in. Defaults to this channel.",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Clear the persistent time message.",
				},
			},
		},
	}
}
