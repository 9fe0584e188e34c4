package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
	"github.com/Taaku18/timezone-bot/internal/render"
	"github.com/Taaku18/timezone-bot/internal/timemsg"
)

// Timezones is the store surface the commands use.
type Timezones interface {
	SetTimezone(ctx context.Context, guildID, userID int64, raw string) (domain.Zone, error)
	Timezone(ctx context.Context, guildID, userID int64) (domain.Zone, error)
	RemoveTimezone(ctx context.Context, guildID, userID int64) error
	SetTimeMessage(ctx context.Context, loc domain.MessageLocation) error
}

// Renderer builds the time embed for a guild.
type Renderer interface {
	Embed(ctx context.Context, guildID int64, lastUpdated bool) (domain.Embed, error)
}

// TimeMessages is the live persistent message cache.
type TimeMessages interface {
	Get(guildID int64) (timemsg.Handle, bool)
	Put(guildID int64, h timemsg.Handle)
	Remove(ctx context.Context, guildID int64) error
}

// Messenger performs message operations on the platform.
type Messenger interface {
	SendEmbed(ctx context.Context, channelID int64, e domain.Embed) (int64, error)
	DeleteMessage(ctx context.Context, loc domain.MessageLocation) error
	PinMessage(ctx context.Context, loc domain.MessageLocation) error
	CanManageMessages(channelID int64) (bool, error)
}

// User identifies a member in a request.
type User struct {
	ID   int64
	Name string
}

// Request is a parsed command invocation.
type Request struct {
	Command        string
	GuildID        int64
	ChannelID      int64
	Author         User
	CanManageGuild bool

	Timezone string // timezone option
	Target   *User  // user option
	Channel  int64  // channel option
}

// Reply is the response to a command.
type Reply struct {
	Content   string
	Embed     *domain.Embed
	Ephemeral bool
	// Quiet suppresses mention pings in Content.
	Quiet bool
}

func reject(text string) Reply {
	return Reply{Content: text, Ephemeral: true}
}

// invalidTimezone names the rejected input, preferring the one carried by err.
func invalidTimezone(err error, raw string) Reply {
	var ite *domain.InvalidTimezoneError
	if errors.As(err, &ite) {
		raw = ite.Input
	}
	return reject(fmt.Sprintf(invalidTimezoneFmt, strings.TrimSpace(raw)))
}

// Handler implements the commands on top of the store, renderer and cache.
type Handler struct {
	tz       Timezones
	renderer Renderer
	messages TimeMessages
	platform Messenger
	log      *zap.Logger
	now      func() time.Time
}

// NewHandler creates a Handler reading the wall clock.
func NewHandler(tz Timezones, renderer Renderer, messages TimeMessages, platform Messenger, log *zap.Logger) *Handler {
	return &Handler{
		tz:       tz,
		renderer: renderer,
		messages: messages,
		platform: platform,
		log:      log,
		now:      time.Now,
	}
}

// Handle runs one command. Rejections come back as ephemeral replies; the
// error is reserved for failures the invoker cannot fix.
func (h *Handler) Handle(ctx context.Context, req Request) (Reply, error) {
	switch req.Command {
	case cmdTimezoneSet:
		return h.timezoneSet(ctx, req)
	case cmdTimezoneCurrent:
		return h.timezoneCurrent(ctx, req)
	case cmdTimezoneClear:
		return h.timezoneClear(ctx, req)
	case cmdTimeIn:
		return h.timeIn(req)
	case cmdTimeAt:
		return h.timeAt(ctx, req)
	case cmdTime:
		return h.snapshot(ctx, req)
	case cmdTimeMessageSend:
		return h.timeMessageSend(ctx, req)
	case cmdTimeMessageClear:
		return h.timeMessageClear(ctx, req)
	default:
		return Reply{}, errors.Errorf("unknown command %q", req.Command)
	}
}

// subject is the member a command acts on: the target when given, otherwise
// the author. Acting on someone else needs Manage Server.
func subject(req Request) (User, bool) {
	if req.Target == nil || req.Target.ID == req.Author.ID {
		return req.Author, true
	}
	return *req.Target, req.CanManageGuild
}

func (h *Handler) timezoneSet(ctx context.Context, req Request) (Reply, error) {
	user, ok := subject(req)
	if !ok {
		return reject(noPermissionSetText), nil
	}
	z, err := h.tz.SetTimezone(ctx, req.GuildID, user.ID, req.Timezone)
	if errors.Is(err, domain.ErrInvalidTimezone) {
		return invalidTimezone(err, req.Timezone), nil
	}
	if err != nil {
		return Reply{}, errors.Wrap(err, "set timezone")
	}
	h.log.Info("timezone set",
		zap.Int64("guild", req.GuildID),
		zap.Int64("user", user.ID),
		zap.Int64("by", req.Author.ID),
		zap.String("tz", z.ID),
	)
	return Reply{
		Content: fmt.Sprintf(timezoneSetFmt, render.Mention(user.ID), z.Name, domain.FormatNow(h.now(), z)),
		Quiet:   true,
	}, nil
}

func (h *Handler) timezoneCurrent(ctx context.Context, req Request) (Reply, error) {
	z, err := h.tz.Timezone(ctx, req.GuildID, req.Author.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return reject(timezoneNotSetText), nil
	}
	if err != nil {
		return Reply{}, errors.Wrap(err, "get timezone")
	}
	return Reply{Content: fmt.Sprintf(timezoneCurrentFmt, z.Name, domain.FormatNow(h.now(), z))}, nil
}

func (h *Handler) timezoneClear(ctx context.Context, req Request) (Reply, error) {
	user, ok := subject(req)
	if !ok {
		return reject(noPermissionClearText), nil
	}
	if err := h.tz.RemoveTimezone(ctx, req.GuildID, user.ID); err != nil {
		return Reply{}, errors.Wrap(err, "clear timezone")
	}
	h.log.Info("timezone cleared",
		zap.Int64("guild", req.GuildID),
		zap.Int64("user", user.ID),
		zap.Int64("by", req.Author.ID),
	)
	return Reply{
		Content: fmt.Sprintf(timezoneClearedFmt, render.Mention(user.ID)),
		Quiet:   true,
	}, nil
}

func (h *Handler) timeIn(req Request) (Reply, error) {
	z, err := domain.LookupZone(req.Timezone)
	if err != nil {
		return invalidTimezone(err, req.Timezone), nil
	}
	return Reply{Content: fmt.Sprintf(timeInFmt, z.Name, domain.FormatNow(h.now(), z))}, nil
}

func (h *Handler) timeAt(ctx context.Context, req Request) (Reply, error) {
	if req.Target == nil {
		return Reply{}, errors.New("timeat without user option")
	}
	z, err := h.tz.Timezone(ctx, req.GuildID, req.Target.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return reject(fmt.Sprintf(timeAtNoneFmt, req.Target.Name)), nil
	}
	if err != nil {
		return Reply{}, errors.Wrap(err, "get timezone")
	}
	return Reply{Content: fmt.Sprintf(timeAtFmt, req.Target.Name, domain.FormatNow(h.now(), z))}, nil
}

func (h *Handler) snapshot(ctx context.Context, req Request) (Reply, error) {
	e, err := h.renderer.Embed(ctx, req.GuildID, false)
	if err != nil {
		return Reply{}, errors.Wrap(err, "render")
	}
	return Reply{Embed: &e}, nil
}

func (h *Handler) timeMessageSend(ctx context.Context, req Request) (Reply, error) {
	if !req.CanManageGuild {
		return reject(noPermissionTimeMessageText), nil
	}
	channelID := req.Channel
	if channelID == 0 {
		channelID = req.ChannelID
	}
	log := h.log.With(zap.Int64("guild", req.GuildID), zap.Int64("channel", channelID))

	if old, ok := h.messages.Get(req.GuildID); ok {
		if err := h.platform.DeleteMessage(ctx, old.Location); err != nil {
			log.Warn("failed to delete previous time message", zap.Error(err))
		}
	}

	e, err := h.renderer.Embed(ctx, req.GuildID, true)
	if err != nil {
		return Reply{}, errors.Wrap(err, "render")
	}
	messageID, err := h.platform.SendEmbed(ctx, channelID, e)
	if err != nil {
		log.Warn("failed to send time message", zap.Error(err))
		return reject(timeMessageFailedText), nil
	}

	loc := domain.MessageLocation{GuildID: req.GuildID, ChannelID: channelID, MessageID: messageID}
	if err := h.tz.SetTimeMessage(ctx, loc); err != nil {
		return Reply{}, errors.Wrap(err, "save time message")
	}
	h.messages.Put(req.GuildID, timemsg.Handle{Location: loc})
	log.Info("time message sent", zap.Int64("message", messageID))

	canPin, err := h.platform.CanManageMessages(channelID)
	if err != nil {
		log.Warn("failed to check manage messages permission", zap.Error(err))
	}
	if canPin {
		if err := h.platform.PinMessage(ctx, loc); err != nil {
			log.Warn("failed to pin time message", zap.Error(err))
		}
	}

	return Reply{Content: fmt.Sprintf(timeMessageSentFmt, channelMention(channelID))}, nil
}

func (h *Handler) timeMessageClear(ctx context.Context, req Request) (Reply, error) {
	if !req.CanManageGuild {
		return reject(noPermissionTimeMessageText), nil
	}
	old, ok := h.messages.Get(req.GuildID)
	if !ok {
		return reject(timeMessageMissingText), nil
	}
	if err := h.platform.DeleteMessage(ctx, old.Location); err != nil {
		h.log.Warn("failed to delete time message", zap.Int64("guild", req.GuildID), zap.Error(err))
	}
	if err := h.messages.Remove(ctx, req.GuildID); err != nil {
		return Reply{}, errors.Wrap(err, "remove time message")
	}
	h.log.Info("time message cleared", zap.Int64("guild", req.GuildID))
	return Reply{Content: timeMessageClearedText}, nil
}

func channelMention(channelID int64) string {
	return fmt.Sprintf("<#%d>", channelID)
}
