package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
	"github.com/Taaku18/timezone-bot/internal/metrics"
	"github.com/Taaku18/timezone-bot/internal/timemsg"
)

//go:generate mockgen -source=scheduler.go -destination=mocks/scheduler.go -package=mocks

// DefaultInterval stays well clear of the platform's edit rate limits.
const DefaultInterval = 11750 * time.Millisecond

// Platform is what the scheduler needs from the chat platform.
type Platform interface {
	// GuildAvailable reports whether the bot is still in the guild.
	GuildAvailable(guildID int64) bool
	// CanSend reports whether the bot may send in the message's channel.
	// A vanished channel yields an error matching domain.ErrNotFound.
	CanSend(loc domain.MessageLocation) (bool, error)
	// EditEmbed replaces the message body. A vanished message yields an
	// error matching domain.ErrNotFound.
	EditEmbed(ctx context.Context, loc domain.MessageLocation, e domain.Embed) error
}

// Renderer builds the embed for a guild.
type Renderer interface {
	Embed(ctx context.Context, guildID int64, lastUpdated bool) (domain.Embed, error)
}

// Cache is the set of live persistent messages.
type Cache interface {
	Guilds() []int64
	Get(guildID int64) (timemsg.Handle, bool)
	// RemoveIf forgets the guild's message only while it is still at loc.
	RemoveIf(ctx context.Context, loc domain.MessageLocation) error
	Len() int
}

// Scheduler periodically re-renders every cached persistent message.
// Ticks never overlap: a tick due while another runs is skipped.
type Scheduler struct {
	cache    Cache
	renderer Renderer
	platform Platform
	log      *zap.Logger
	metrics  *metrics.Metrics
	interval time.Duration

	running atomic.Bool
}

// New creates a Scheduler. A non-positive interval selects DefaultInterval.
func New(cache Cache, renderer Renderer, platform Platform, log *zap.Logger, m *metrics.Metrics, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		cache:    cache,
		renderer: renderer,
		platform: platform,
		log:      log,
		metrics:  m,
		interval: interval,
	}
}

// Run ticks immediately and then every interval until ctx is canceled. It
// returns after the in-flight tick, if any, finishes.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	s.trigger(ctx, &wg)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.trigger(ctx, &wg)
		}
	}
}

// trigger starts a tick unless one is already running.
func (s *Scheduler) trigger(ctx context.Context, wg *sync.WaitGroup) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.TickSkipped()
		s.log.Debug("previous tick still running, skipping")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer s.running.Store(false)
		s.Tick(ctx)
	}()
}

// Tick performs one refresh cycle over every cached guild. Failures are
// logged per guild and never stop the cycle.
func (s *Scheduler) Tick(ctx context.Context) {
	start := time.Now()
	s.metrics.TickStarted()
	for _, guildID := range s.cache.Guilds() {
		if ctx.Err() != nil {
			return
		}
		s.refresh(ctx, guildID)
	}
	s.metrics.TickDone(time.Since(start).Seconds(), s.cache.Len())
}

func (s *Scheduler) refresh(ctx context.Context, guildID int64) {
	log := s.log.With(zap.Int64("guild", guildID))
	defer func() {
		if r := recover(); r != nil {
			s.metrics.Refreshed(metrics.ResultError)
			log.Error("time message update panicked", zap.Any("panic", r))
		}
	}()

	h, ok := s.cache.Get(guildID)
	if !ok {
		return
	}

	if !s.platform.GuildAvailable(guildID) {
		s.metrics.Refreshed(metrics.ResultGuildGone)
		log.Info("guild unavailable, dropping time message")
		s.drop(ctx, log, h.Location)
		return
	}

	canSend, err := s.platform.CanSend(h.Location)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.metrics.Refreshed(metrics.ResultGuildGone)
		log.Info("time message channel gone, dropping time message", zap.Error(err))
		s.drop(ctx, log, h.Location)
		return
	case err != nil:
		s.metrics.Refreshed(metrics.ResultError)
		log.Error("failed to check channel permissions", zap.Error(err))
		return
	case !canSend:
		// Permissions may come back; keep the message.
		s.metrics.Refreshed(metrics.ResultNoPermission)
		log.Debug("no send permission, skipping")
		return
	}

	embed, err := s.renderer.Embed(ctx, guildID, true)
	if err != nil {
		s.metrics.Refreshed(metrics.ResultError)
		log.Error("failed to render time message", zap.Error(err))
		return
	}

	if err := s.platform.EditEmbed(ctx, h.Location, embed); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.Refreshed(metrics.ResultGuildGone)
			log.Info("time message deleted, dropping", zap.Error(err))
			s.drop(ctx, log, h.Location)
			return
		}
		s.metrics.Refreshed(metrics.ResultError)
		log.Error("failed to update time message", zap.Error(err))
		return
	}
	s.metrics.Refreshed(metrics.ResultUpdated)
}

// drop forgets loc. A message sent while this tick was in flight replaced it
// and stays.
func (s *Scheduler) drop(ctx context.Context, log *zap.Logger, loc domain.MessageLocation) {
	if err := s.cache.RemoveIf(ctx, loc); err != nil {
		log.Error("failed to remove time message record", zap.Error(err))
	}
}
