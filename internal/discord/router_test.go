package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/metrics"
)

type recordingResponder struct {
	responses []*discordgo.InteractionResponse
}

func (r *recordingResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.responses = append(r.responses, resp)
	return nil
}

func (r *recordingResponder) last(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	require.NotEmpty(t, r.responses)
	return r.responses[len(r.responses)-1]
}

func newTestRouter(t *testing.T) (*Router, *recordingResponder, *metrics.Metrics) {
	t.Helper()
	f := newFixture(t)
	resp := &recordingResponder{}
	m := metrics.New(prometheus.NewRegistry())
	return NewRouter(f.h, resp, zap.NewNop(), m), resp, m
}

func commandInteraction(perms int64, data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "1",
		ChannelID: "2",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "10", Username: "alice", Discriminator: "0"},
			Permissions: perms,
		},
		Data: data,
	}}
}

func subcommand(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandInteractionDataOption {
	return []*discordgo.ApplicationCommandInteractionDataOption{{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}}
}

func TestRouter_TimezoneSet(t *testing.T) {
	r, resp, m := newTestRouter(t)

	r.HandleInteraction(context.Background(), commandInteraction(0, discordgo.ApplicationCommandInteractionData{
		Name: "timezone",
		Options: subcommand("set", &discordgo.ApplicationCommandInteractionDataOption{
			Name:  optTimezone,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: "Asia/Tokyo",
		}),
	}))

	got := resp.last(t)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, got.Type)
	assert.Equal(t, "<@10>'s timezone is set to Asia/Tokyo. The current date and time is Jan 15, 2024 21:00:05 JST.", got.Data.Content)
	assert.Zero(t, got.Data.Flags)
	require.NotNil(t, got.Data.AllowedMentions)
	assert.Empty(t, got.Data.AllowedMentions.Parse)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues(cmdTimezoneSet, resultOK)))
}

func TestRouter_TimeAtResolvesUserName(t *testing.T) {
	r, resp, m := newTestRouter(t)

	r.HandleInteraction(context.Background(), commandInteraction(0, discordgo.ApplicationCommandInteractionData{
		Name: cmdTimeAt,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:  optUser,
			Type:  discordgo.ApplicationCommandOptionUser,
			Value: "20",
		}},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users: map[string]*discordgo.User{"20": {ID: "20", Username: "bob", Discriminator: "0"}},
		},
	}))

	got := resp.last(t)
	assert.Equal(t, "bob has not set their timezone yet.", got.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, got.Data.Flags)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues(cmdTimeAt, resultRejected)))
}

func TestRouter_TimeMessageNeedsManageServer(t *testing.T) {
	r, resp, _ := newTestRouter(t)

	r.HandleInteraction(context.Background(), commandInteraction(discordgo.PermissionSendMessages, discordgo.ApplicationCommandInteractionData{
		Name:    "timemessage",
		Options: subcommand("clear"),
	}))
	assert.Equal(t, noPermissionTimeMessageText, resp.last(t).Data.Content)

	r.HandleInteraction(context.Background(), commandInteraction(discordgo.PermissionManageServer, discordgo.ApplicationCommandInteractionData{
		Name:    "timemessage",
		Options: subcommand("clear"),
	}))
	assert.Equal(t, timeMessageMissingText, resp.last(t).Data.Content)
}

func TestRouter_TimeEmbed(t *testing.T) {
	r, resp, _ := newTestRouter(t)

	r.HandleInteraction(context.Background(), commandInteraction(0, discordgo.ApplicationCommandInteractionData{Name: cmdTime}))

	got := resp.last(t)
	require.Len(t, got.Data.Embeds, 1)
	assert.Equal(t, "What's the time?", got.Data.Embeds[0].Title)
	assert.Equal(t, "No one has set their timezone.", got.Data.Embeds[0].Description)
}

func TestRouter_RejectsDirectMessages(t *testing.T) {
	r, resp, _ := newTestRouter(t)

	r.HandleInteraction(context.Background(), &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		User: &discordgo.User{ID: "10"},
		Data: discordgo.ApplicationCommandInteractionData{Name: cmdTime},
	}})

	got := resp.last(t)
	assert.Equal(t, guildOnlyText, got.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, got.Data.Flags)
}

func TestRouter_UnknownCommand(t *testing.T) {
	r, resp, m := newTestRouter(t)

	r.HandleInteraction(context.Background(), commandInteraction(0, discordgo.ApplicationCommandInteractionData{Name: "dance"}))

	assert.Equal(t, internalErrorText, resp.last(t).Data.Content)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("dance", resultError)))
}

func TestRouter_Autocomplete(t *testing.T) {
	r, resp, _ := newTestRouter(t)

	r.HandleInteraction(context.Background(), &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommandAutocomplete,
		GuildID: "1",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "timezone",
			Options: subcommand("set", &discordgo.ApplicationCommandInteractionDataOption{
				Name:    optTimezone,
				Type:    discordgo.ApplicationCommandOptionString,
				Value:   "TOKYO",
				Focused: true,
			}),
		},
	}})

	got := resp.last(t)
	assert.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, got.Type)
	require.Len(t, got.Data.Choices, 1)
	assert.Equal(t, "Asia/Tokyo", got.Data.Choices[0].Name)
	assert.Equal(t, "Asia/Tokyo", got.Data.Choices[0].Value)
}

func TestRouter_AutocompleteCapsChoices(t *testing.T) {
	r, resp, _ := newTestRouter(t)

	r.HandleInteraction(context.Background(), &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommandAutocomplete,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: cmdTimeIn,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:    optTimezone,
				Type:    discordgo.ApplicationCommandOptionString,
				Value:   "",
				Focused: true,
			}},
		},
	}})

	assert.Len(t, resp.last(t).Data.Choices, maxChoices)
}

func TestFlatten(t *testing.T) {
	name, opts := flatten("timezone", subcommand("clear"))
	assert.Equal(t, cmdTimezoneClear, name)
	assert.Empty(t, opts)

	name, _ = flatten(cmdTime, nil)
	assert.Equal(t, cmdTime, name)
}

func TestCommandsCoverHandlers(t *testing.T) {
	var names []string
	for _, c := range Commands() {
		sub := 0
		for _, o := range c.Options {
			if o.Type == discordgo.ApplicationCommandOptionSubCommand {
				names = append(names, c.Name+" "+o.Name)
				sub++
			}
		}
		if sub == 0 {
			names = append(names, c.Name)
		}
		require.NotNil(t, c.DMPermission)
		assert.False(t, *c.DMPermission)
	}
	assert.ElementsMatch(t, []string{
		cmdTimezoneSet, cmdTimezoneCurrent, cmdTimezoneClear,
		cmdTimeIn, cmdTimeAt, cmdTime,
		cmdTimeMessageSend, cmdTimeMessageClear,
	}, names)
}
