// Package render turns a guild's timezones into the "what's the time" embed.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

const (
	Title   = "What's the time?"
	NoneSet = "No one has set their timezone."
)

// Timezones is the read side of the store the renderer needs.
type Timezones interface {
	Timezones(ctx context.Context, guildID int64) ([]domain.MemberZone, error)
}

// Renderer builds time embeds. Safe for concurrent use.
type Renderer struct {
	tz     Timezones
	colour *domain.ColourStepper
	now    func() time.Time
}

// New returns a Renderer reading the wall clock.
func New(tz Timezones, colour *domain.ColourStepper) *Renderer {
	return &Renderer{tz: tz, colour: colour, now: time.Now}
}

// WithClock replaces the clock; used by tests.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Embed renders the guild's current grouping. lastUpdated appends a
// platform timestamp of the render time.
func (r *Renderer) Embed(ctx context.Context, guildID int64, lastUpdated bool) (domain.Embed, error) {
	zones, err := r.tz.Timezones(ctx, guildID)
	if err != nil {
		return domain.Embed{}, err
	}
	now := r.now()
	text := Describe(domain.GroupByLocalTime(now, zones))
	if lastUpdated {
		text += fmt.Sprintf("\n\n*Last Updated: <t:%d:f>*", now.Unix())
	}
	return domain.Embed{
		Title:       Title,
		Description: strings.TrimSpace(text),
		Colour:      r.colour.Next(),
	}, nil
}

// Describe lays out one bold time header per group followed by member mentions.
func Describe(g domain.Grouping) string {
	if g.NoneSet() {
		return NoneSet
	}
	var b strings.Builder
	for _, grp := range g {
		b.WriteString("**")
		b.WriteString(grp.Local.Format(domain.LayoutGroup))
		b.WriteString(":**\n")
		for i, id := range grp.UserIDs {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Mention(id))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Mention formats a user mention.
func Mention(userID int64) string {
	return fmt.Sprintf("<@%d>", userID)
}
