package app

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Taaku18/timezone-bot/internal/config"
	"github.com/Taaku18/timezone-bot/internal/discord"
	"github.com/Taaku18/timezone-bot/internal/domain"
	"github.com/Taaku18/timezone-bot/internal/metrics"
	"github.com/Taaku18/timezone-bot/internal/render"
	"github.com/Taaku18/timezone-bot/internal/scheduler"
	"github.com/Taaku18/timezone-bot/internal/store"
	"github.com/Taaku18/timezone-bot/internal/timemsg"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg       config.Config
	log       *zap.Logger
	session   *discordgo.Session
	client    *discord.Client
	store     *store.Store
	cache     *timemsg.Cache
	scheduler *scheduler.Scheduler
	router    *discord.Router
	httpSrv   *http.Server

	readyOnce sync.Once
	started   chan struct{}
	ready     atomic.Bool
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	repo, err := store.OpenRepo(ctx, cfg.StoreDriver, cfg.StorePath())
	if err != nil {
		return nil, err
	}
	st := store.New(repo, log.Named("store"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	client := discord.NewClient(session)
	cache := timemsg.New(st, client, log.Named("timemsg"))
	renderer := render.New(st, domain.NewColourStepper(rand.New(rand.NewSource(time.Now().UnixNano()))))
	handler := discord.NewHandler(st, renderer, cache, client, log.Named("commands"))

	a := &App{
		cfg:       cfg,
		log:       log,
		session:   session,
		client:    client,
		store:     st,
		cache:     cache,
		scheduler: scheduler.New(cache, renderer, client, log.Named("scheduler"), m, cfg.RefreshInterval),
		router:    discord.NewRouter(handler, session, log.Named("discord"), m),
		started:   make(chan struct{}),
	}
	a.httpSrv = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      newMux(&a.ready, reg),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	return a, nil
}

// newMux serves /healthz, which turns 200 once the time message cache is
// loaded, and the Prometheus registry on /metrics.
func newMux(ready *atomic.Bool, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting timezone-bot",
		zap.String("store", a.cfg.StoreDriver),
		zap.String("path", a.cfg.StorePath()),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Duration("refresh", a.cfg.RefreshInterval),
	)
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.log.Info("logged in",
			zap.String("user", r.User.String()),
			zap.String("id", r.User.ID),
			zap.Int("guilds", len(r.Guilds)),
		)
		// Ready repeats on reconnect; the refresh loop starts once.
		a.readyOnce.Do(func() { close(a.started) })
	})
	a.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		a.router.HandleInteraction(ctx, i)
	})

	if err := a.session.Open(); err != nil {
		return errors.Wrap(err, "open discord session")
	}
	defer func() {
		if err := a.session.Close(); err != nil {
			a.log.Warn("discord session close error", zap.Error(err))
		}
	}()

	g.Go(func() error {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutdown signal received")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.httpSrv.Shutdown(shCtx); err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-a.started:
		}
		return a.startRefresh(ctx)
	})

	return g.Wait()
}

// startRefresh runs once after the first Ready: optional command sync, cache
// reconciliation, then the refresh loop until ctx ends.
func (a *App) startRefresh(ctx context.Context) error {
	if a.cfg.SyncCommands {
		if err := a.client.SyncCommands(ctx, discord.Commands()); err != nil {
			a.log.Error("command sync failed", zap.Error(err))
		} else {
			a.log.Info("commands synced")
		}
	}
	if err := a.cache.Reconcile(ctx); err != nil {
		return errors.Wrap(err, "load time messages")
	}
	a.ready.Store(true)
	a.scheduler.Run(ctx)
	return nil
}
