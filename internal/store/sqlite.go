package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies PRAGMAs, runs migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// Single-writer engine; one connection also serializes every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply pragmas")
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrations")
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) SetTimezone(ctx context.Context, guildID, userID int64, tz string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timezones (guild_id, user_id, tz) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET tz = excluded.tz`,
		guildID, userID, tz,
	)
	return errors.Wrap(err, "set timezone")
}

func (r *SQLiteRepo) GetTimezone(ctx context.Context, guildID, userID int64) (string, error) {
	var tz string
	err := r.db.QueryRowContext(ctx,
		`SELECT tz FROM timezones WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	).Scan(&tz)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	return tz, errors.Wrap(err, "get timezone")
}

func (r *SQLiteRepo) ListTimezones(ctx context.Context, guildID int64) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, tz FROM timezones WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "list timezones")
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var (
			userID int64
			tz     string
		)
		if err := rows.Scan(&userID, &tz); err != nil {
			return nil, errors.Wrap(err, "scan timezone")
		}
		out[userID] = tz
	}
	return out, errors.Wrap(rows.Err(), "list timezones")
}

func (r *SQLiteRepo) RemoveTimezone(ctx context.Context, guildID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM timezones WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	return errors.Wrap(err, "remove timezone")
}

func (r *SQLiteRepo) PruneTimezone(ctx context.Context, guildID, userID int64, tz string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM timezones WHERE guild_id = ? AND user_id = ? AND tz = ?`, guildID, userID, tz)
	return errors.Wrap(err, "prune timezone")
}

func (r *SQLiteRepo) GetTimeMessage(ctx context.Context, guildID int64) (domain.MessageLocation, error) {
	loc := domain.MessageLocation{GuildID: guildID}
	err := r.db.QueryRowContext(ctx,
		`SELECT channel_id, message_id FROM time_messages WHERE guild_id = ?`, guildID,
	).Scan(&loc.ChannelID, &loc.MessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MessageLocation{}, domain.ErrNotFound
	}
	return loc, errors.Wrap(err, "get time message")
}

func (r *SQLiteRepo) ListTimeMessages(ctx context.Context) ([]domain.MessageLocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT guild_id, channel_id, message_id FROM time_messages ORDER BY guild_id`)
	if err != nil {
		return nil, errors.Wrap(err, "list time messages")
	}
	defer rows.Close()

	var out []domain.MessageLocation
	for rows.Next() {
		var loc domain.MessageLocation
		if err := rows.Scan(&loc.GuildID, &loc.ChannelID, &loc.MessageID); err != nil {
			return nil, errors.Wrap(err, "scan time message")
		}
		out = append(out, loc)
	}
	return out, errors.Wrap(rows.Err(), "list time messages")
}

func (r *SQLiteRepo) SetTimeMessage(ctx context.Context, loc domain.MessageLocation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_messages (guild_id, channel_id, message_id) VALUES (?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			channel_id = excluded.channel_id,
			message_id = excluded.message_id`,
		loc.GuildID, loc.ChannelID, loc.MessageID,
	)
	return errors.Wrap(err, "set time message")
}

func (r *SQLiteRepo) RemoveTimeMessage(ctx context.Context, guildID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM time_messages WHERE guild_id = ?`, guildID)
	return errors.Wrap(err, "remove time message")
}

func (r *SQLiteRepo) PruneTimeMessage(ctx context.Context, loc domain.MessageLocation) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM time_messages WHERE guild_id = ? AND channel_id = ? AND message_id = ?`,
		loc.GuildID, loc.ChannelID, loc.MessageID)
	return errors.Wrap(err, "prune time message")
}

func (r *SQLiteRepo) Snapshot(ctx context.Context) (map[int64]GuildState, error) {
	out := map[int64]GuildState{}
	state := func(guildID int64) GuildState {
		st, ok := out[guildID]
		if !ok {
			st = GuildState{Timezones: map[int64]string{}}
		}
		return st
	}

	rows, err := r.db.QueryContext(ctx, `SELECT guild_id, user_id, tz FROM timezones`)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot timezones")
	}
	for rows.Next() {
		var (
			guildID, userID int64
			tz              string
		)
		if err := rows.Scan(&guildID, &userID, &tz); err != nil {
			_ = rows.Close()
			return nil, errors.Wrap(err, "scan timezone")
		}
		st := state(guildID)
		st.Timezones[userID] = tz
		out[guildID] = st
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, errors.Wrap(err, "snapshot timezones")
	}
	_ = rows.Close()

	msgs, err := r.ListTimeMessages(ctx)
	if err != nil {
		return nil, err
	}
	for _, loc := range msgs {
		st := state(loc.GuildID)
		st.TimeMessage = &loc
		out[loc.GuildID] = st
	}
	return out, nil
}
