package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
	"github.com/Taaku18/timezone-bot/internal/metrics"
)

// Command outcomes recorded in metrics.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultError    = "error"
)

// commandTimeout bounds the work behind one interaction.
const commandTimeout = 10 * time.Second

var errNotInGuild = errors.New("interaction outside a guild")

// Responder answers interactions. *discordgo.Session satisfies it.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Router turns interactions into handler requests and sends the replies.
type Router struct {
	handler   *Handler
	responder Responder
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, responder Responder, log *zap.Logger, m *metrics.Metrics) *Router {
	return &Router{handler: handler, responder: responder, log: log, metrics: m}
}

// HandleInteraction routes a single interaction to the matching handler.
func (r *Router) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("interaction handler panicked", zap.Any("panic", p))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.handleCommand(ctx, i.Interaction)
	case discordgo.InteractionApplicationCommandAutocomplete:
		r.handleAutocomplete(ctx, i.Interaction)
	default:
		// Components and modals are not used.
	}
}

func (r *Router) handleCommand(ctx context.Context, in *discordgo.Interaction) {
	req, err := parseRequest(in)
	if err != nil {
		if errors.Is(err, errNotInGuild) {
			r.respond(ctx, in, reject(guildOnlyText), r.log)
			return
		}
		r.log.Error("failed to parse interaction", zap.Error(err))
		r.respond(ctx, in, reject(internalErrorText), r.log)
		return
	}

	log := r.log.With(
		zap.String("command", req.Command),
		zap.Int64("guild", req.GuildID),
		zap.Int64("user", req.Author.ID),
	)
	reply, err := r.handler.Handle(ctx, req)
	result := resultOK
	switch {
	case err != nil:
		result = resultError
		log.Error("command failed", zap.Error(err))
		reply = reject(internalErrorText)
	case reply.Ephemeral:
		result = resultRejected
	}
	r.metrics.Command(req.Command, result)
	r.respond(ctx, in, reply, log)
}

func (r *Router) respond(ctx context.Context, in *discordgo.Interaction, reply Reply, log *zap.Logger) {
	data := &discordgo.InteractionResponseData{Content: reply.Content}
	if reply.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{messageEmbed(*reply.Embed)}
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if reply.Quiet {
		data.AllowedMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
	}
	err := r.responder.InteractionRespond(in, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Error("failed to respond to interaction", zap.Error(err))
	}
}

func (r *Router) handleAutocomplete(ctx context.Context, in *discordgo.Interaction) {
	data := in.ApplicationCommandData()
	_, opts := flatten(data.Name, data.Options)

	var query string
	for _, o := range opts {
		if o.Focused && o.Name == optTimezone {
			query, _ = o.Value.(string)
		}
	}
	names := domain.SuggestZones(query, maxChoices)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
	}

	err := r.responder.InteractionRespond(in, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}, discordgo.WithContext(ctx))
	if err != nil {
		r.log.Debug("failed to send autocomplete choices", zap.Error(err))
	}
}

// flatten descends into subcommands and returns the full command name with
// the leaf options.
func flatten(name string, opts []*discordgo.ApplicationCommandInteractionDataOption) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	for len(opts) == 1 &&
		(opts[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
			opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		name += " " + opts[0].Name
		opts = opts[0].Options
	}
	return name, opts
}

func parseRequest(in *discordgo.Interaction) (Request, error) {
	if in.GuildID == "" || in.Member == nil || in.Member.User == nil {
		return Request{}, errNotInGuild
	}
	data := in.ApplicationCommandData()
	name, opts := flatten(data.Name, data.Options)

	guildID, err := parseSnowflake(in.GuildID)
	if err != nil {
		return Request{}, errors.Wrap(err, "guild id")
	}
	channelID, err := parseSnowflake(in.ChannelID)
	if err != nil {
		return Request{}, errors.Wrap(err, "channel id")
	}
	authorID, err := parseSnowflake(in.Member.User.ID)
	if err != nil {
		return Request{}, errors.Wrap(err, "author id")
	}

	req := Request{
		Command:        name,
		GuildID:        guildID,
		ChannelID:      channelID,
		Author:         User{ID: authorID, Name: in.Member.User.String()},
		CanManageGuild: in.Member.Permissions&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0,
	}
	for _, o := range opts {
		switch o.Name {
		case optTimezone:
			req.Timezone = o.StringValue()
		case optUser:
			raw := o.UserValue(nil).ID
			id, err := parseSnowflake(raw)
			if err != nil {
				return Request{}, errors.Wrap(err, "user option")
			}
			target := User{ID: id, Name: "<@" + raw + ">"}
			if data.Resolved != nil {
				if u, ok := data.Resolved.Users[raw]; ok {
					target.Name = u.String()
				}
			}
			req.Target = &target
		case optChannel:
			id, err := parseSnowflake(o.ChannelValue(nil).ID)
			if err != nil {
				return Request{}, errors.Wrap(err, "channel option")
			}
			req.Channel = id
		}
	}
	return req, nil
}
