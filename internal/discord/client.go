// Package discord connects the bot to Discord: the platform adapter used by
// the cache and scheduler, the application commands and their handlers.
package discord

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

// Client adapts a discordgo session to the bot's platform interfaces.
type Client struct {
	s *discordgo.Session
}

// NewClient wraps an opened or about-to-open session.
func NewClient(s *discordgo.Session) *Client {
	return &Client{s: s}
}

// GuildAvailable reports whether the guild is still in the session state.
func (c *Client) GuildAvailable(guildID int64) bool {
	_, err := c.s.State.Guild(snowflake(guildID))
	return err == nil
}

// CanSend reports whether the bot may send messages in the channel.
func (c *Client) CanSend(loc domain.MessageLocation) (bool, error) {
	return c.hasPermission(loc.ChannelID, discordgo.PermissionViewChannel|discordgo.PermissionSendMessages)
}

// CanManageMessages reports whether the bot may pin in the channel.
func (c *Client) CanManageMessages(channelID int64) (bool, error) {
	return c.hasPermission(channelID, discordgo.PermissionManageMessages)
}

func (c *Client) hasPermission(channelID int64, want int64) (bool, error) {
	me := c.s.State.User
	if me == nil {
		return false, errors.Wrap(domain.ErrUnavailable, "session not ready")
	}
	perms, err := c.s.UserChannelPermissions(me.ID, snowflake(channelID))
	if err != nil {
		return false, wrapErr(err, "channel permissions %d", channelID)
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	return perms&want == want, nil
}

// FetchMessage resolves the channel from state, falling back to the API, then
// fetches the message itself.
func (c *Client) FetchMessage(ctx context.Context, loc domain.MessageLocation) error {
	channelID := snowflake(loc.ChannelID)
	if _, err := c.s.State.Channel(channelID); err != nil {
		if _, err := c.s.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
			return wrapErr(err, "fetch channel %d", loc.ChannelID)
		}
	}
	if _, err := c.s.ChannelMessage(channelID, snowflake(loc.MessageID), discordgo.WithContext(ctx)); err != nil {
		return wrapErr(err, "fetch message %d", loc.MessageID)
	}
	return nil
}

// SendEmbed posts a new embed message and returns its id.
func (c *Client) SendEmbed(ctx context.Context, channelID int64, e domain.Embed) (int64, error) {
	msg, err := c.s.ChannelMessageSendEmbed(snowflake(channelID), messageEmbed(e), discordgo.WithContext(ctx))
	if err != nil {
		return 0, wrapErr(err, "send embed to %d", channelID)
	}
	id, err := parseSnowflake(msg.ID)
	if err != nil {
		return 0, errors.Wrap(err, "sent message id")
	}
	return id, nil
}

// EditEmbed replaces the body of an existing message.
func (c *Client) EditEmbed(ctx context.Context, loc domain.MessageLocation, e domain.Embed) error {
	_, err := c.s.ChannelMessageEditEmbed(snowflake(loc.ChannelID), snowflake(loc.MessageID), messageEmbed(e), discordgo.WithContext(ctx))
	return wrapErr(err, "edit message %d", loc.MessageID)
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(ctx context.Context, loc domain.MessageLocation) error {
	err := c.s.ChannelMessageDelete(snowflake(loc.ChannelID), snowflake(loc.MessageID), discordgo.WithContext(ctx))
	return wrapErr(err, "delete message %d", loc.MessageID)
}

// PinMessage pins a message in its channel.
func (c *Client) PinMessage(ctx context.Context, loc domain.MessageLocation) error {
	err := c.s.ChannelMessagePin(snowflake(loc.ChannelID), snowflake(loc.MessageID), discordgo.WithContext(ctx))
	return wrapErr(err, "pin message %d", loc.MessageID)
}

// SyncCommands replaces the application's global commands with cmds.
func (c *Client) SyncCommands(ctx context.Context, cmds []*discordgo.ApplicationCommand) error {
	me := c.s.State.User
	if me == nil {
		return errors.Wrap(domain.ErrUnavailable, "session not ready")
	}
	_, err := c.s.ApplicationCommandBulkOverwrite(me.ID, "", cmds, discordgo.WithContext(ctx))
	return wrapErr(err, "sync commands")
}

// wrapErr classifies a discordgo failure: missing resources match
// domain.ErrNotFound, everything else domain.ErrUnavailable.
func wrapErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	kind := domain.ErrUnavailable
	var restErr *discordgo.RESTError
	switch {
	case errors.Is(err, discordgo.ErrStateNotFound):
		kind = domain.ErrNotFound
	case errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound:
		kind = domain.ErrNotFound
	}
	return errors.Wrapf(kind, format+": %v", append(args, err)...)
}

func messageEmbed(e domain.Embed) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Colour,
	}
}

func snowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseSnowflake(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid snowflake %q", s)
	}
	return id, nil
}
