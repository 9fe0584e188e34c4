package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/app"
	"github.com/Taaku18/timezone-bot/internal/config"
	"github.com/Taaku18/timezone-bot/internal/logger"
	"github.com/Taaku18/timezone-bot/internal/store"
)

type cli struct {
	EnvFile string `name:"env-file" default:".env" help:"Load environment variables from this file if it exists."`

	Run    runCmd    `cmd:"" default:"1" help:"Run the bot (default)."`
	Import importCmd `cmd:"" help:"Copy a JSON timezone file into a SQLite database."`
}

type runCmd struct{}

func (runCmd) Run(c *cli) error {
	cfg, err := config.Load(c.EnvFile)
	if err != nil {
		return errors.Wrap(err, "config error")
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "logger init error")
	}
	// Ignore sync error (common on some platforms).
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("app init failed", zap.Error(err))
		return err
	}
	if err := application.Run(ctx); err != nil {
		log.Error("app run failed", zap.Error(err))
		return err
	}
	return nil
}

type importCmd struct {
	From string `arg:"" type:"existingfile" help:"Source JSON document."`
	To   string `arg:"" help:"Destination SQLite database, created if missing."`
}

func (c importCmd) Run() error {
	log, err := logger.New("info")
	if err != nil {
		return errors.Wrap(err, "logger init error")
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	src, err := store.OpenJSON(c.From)
	if err != nil {
		return err
	}
	dst, err := store.OpenSQLite(ctx, c.To)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	timezones, messages, err := store.Copy(ctx, dst, src)
	if err != nil {
		return err
	}
	log.Info("import finished",
		zap.String("from", c.From),
		zap.String("to", c.To),
		zap.Int("timezones", timezones),
		zap.Int("time_messages", messages),
	)
	return nil
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("timezone-bot"),
		kong.Description("Discord bot showing every member's local time."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&c))
}
