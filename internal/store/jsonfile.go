package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

// guildDoc is one guild's entry in the JSON document.
type guildDoc struct {
	Timezones   map[string]string `json:"timezones"`
	TimeMessage *[2]int64         `json:"time_message,omitempty"` // [channel id, message id]
}

type document map[string]*guildDoc

// JSONRepo implements Repo on a single JSON document. The whole document is
// read and rewritten under one mutex on every operation.
type JSONRepo struct {
	mu   sync.Mutex
	path string
}

// OpenJSON opens the document at path, creating it as {} when missing.
func OpenJSON(path string) (*JSONRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	r := &JSONRepo{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := r.write(document{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "stat data file")
	}
	if _, err := r.read(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close is a no-op; nothing is held open between operations.
func (r *JSONRepo) Close() error { return nil }

func (r *JSONRepo) read() (document, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "read data file")
	}
	doc := document{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", r.path)
	}
	return doc, nil
}

// write replaces the file atomically: temp file, fsync, rename.
func (r *JSONRepo) write(doc document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encode document")
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	return errors.Wrap(os.Rename(tmpName, r.path), "replace data file")
}

// view runs fn on a fresh copy of the document.
func (r *JSONRepo) view(ctx context.Context, fn func(document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update runs fn and writes the document back if fn reports a change.
func (r *JSONRepo) update(ctx context.Context, fn func(document) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.read()
	if err != nil {
		return err
	}
	if !fn(doc) {
		return nil
	}
	return r.write(doc)
}

func key(id int64) string { return strconv.FormatInt(id, 10) }

func (d document) guild(guildID int64) *guildDoc {
	g, ok := d[key(guildID)]
	if !ok || g == nil {
		g = &guildDoc{}
		d[key(guildID)] = g
	}
	if g.Timezones == nil {
		g.Timezones = map[string]string{}
	}
	return g
}

func (r *JSONRepo) SetTimezone(ctx context.Context, guildID, userID int64, tz string) error {
	return r.update(ctx, func(doc document) bool {
		doc.guild(guildID).Timezones[key(userID)] = tz
		return true
	})
}

func (r *JSONRepo) GetTimezone(ctx context.Context, guildID, userID int64) (string, error) {
	var tz string
	err := r.view(ctx, func(doc document) error {
		g, ok := doc[key(guildID)]
		if !ok || g == nil {
			return domain.ErrNotFound
		}
		v, ok := g.Timezones[key(userID)]
		if !ok {
			return domain.ErrNotFound
		}
		tz = v
		return nil
	})
	return tz, err
}

func (r *JSONRepo) ListTimezones(ctx context.Context, guildID int64) (map[int64]string, error) {
	out := map[int64]string{}
	err := r.view(ctx, func(doc document) error {
		g, ok := doc[key(guildID)]
		if !ok || g == nil {
			return nil
		}
		var err error
		out, err = decodeTimezones(g.Timezones)
		return err
	})
	return out, err
}

func (r *JSONRepo) RemoveTimezone(ctx context.Context, guildID, userID int64) error {
	return r.update(ctx, func(doc document) bool {
		g, ok := doc[key(guildID)]
		if !ok || g == nil {
			return false
		}
		if _, ok := g.Timezones[key(userID)]; !ok {
			return false
		}
		delete(g.Timezones, key(userID))
		return true
	})
}

func (r *JSONRepo) PruneTimezone(ctx context.Context, guildID, userID int64, tz string) error {
	return r.update(ctx, func(doc document) bool {
		g, ok := doc[key(guildID)]
		if !ok || g == nil || g.Timezones[key(userID)] != tz {
			return false
		}
		delete(g.Timezones, key(userID))
		return true
	})
}

func (r *JSONRepo) GetTimeMessage(ctx context.Context, guildID int64) (domain.MessageLocation, error) {
	var loc domain.MessageLocation
	err := r.view(ctx, func(doc document) error {
		g, ok := doc[key(guildID)]
		if !ok || g == nil || g.TimeMessage == nil {
			return domain.ErrNotFound
		}
		loc = domain.MessageLocation{GuildID: guildID, ChannelID: g.TimeMessage[0], MessageID: g.TimeMessage[1]}
		return nil
	})
	return loc, err
}

func (r *JSONRepo) ListTimeMessages(ctx context.Context) ([]domain.MessageLocation, error) {
	var out []domain.MessageLocation
	err := r.view(ctx, func(doc document) error {
		for k, g := range doc {
			if g == nil || g.TimeMessage == nil {
				continue
			}
			guildID, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "guild key %q", k)
			}
			out = append(out, domain.MessageLocation{GuildID: guildID, ChannelID: g.TimeMessage[0], MessageID: g.TimeMessage[1]})
		}
		return nil
	})
	sortLocations(out)
	return out, err
}

func (r *JSONRepo) SetTimeMessage(ctx context.Context, loc domain.MessageLocation) error {
	return r.update(ctx, func(doc document) bool {
		doc.guild(loc.GuildID).TimeMessage = &[2]int64{loc.ChannelID, loc.MessageID}
		return true
	})
}

func (r *JSONRepo) RemoveTimeMessage(ctx context.Context, guildID int64) error {
	return r.update(ctx, func(doc document) bool {
		g, ok := doc[key(guildID)]
		if !ok || g == nil || g.TimeMessage == nil {
			return false
		}
		g.TimeMessage = nil
		return true
	})
}

func (r *JSONRepo) PruneTimeMessage(ctx context.Context, loc domain.MessageLocation) error {
	return r.update(ctx, func(doc document) bool {
		g, ok := doc[key(loc.GuildID)]
		if !ok || g == nil || g.TimeMessage == nil || *g.TimeMessage != [2]int64{loc.ChannelID, loc.MessageID} {
			return false
		}
		g.TimeMessage = nil
		return true
	})
}

func (r *JSONRepo) Snapshot(ctx context.Context) (map[int64]GuildState, error) {
	out := map[int64]GuildState{}
	err := r.view(ctx, func(doc document) error {
		for k, g := range doc {
			if g == nil {
				continue
			}
			guildID, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "guild key %q", k)
			}
			tzs, err := decodeTimezones(g.Timezones)
			if err != nil {
				return err
			}
			st := GuildState{Timezones: tzs}
			if g.TimeMessage != nil {
				st.TimeMessage = &domain.MessageLocation{GuildID: guildID, ChannelID: g.TimeMessage[0], MessageID: g.TimeMessage[1]}
			}
			out[guildID] = st
		}
		return nil
	})
	return out, err
}

func decodeTimezones(in map[string]string) (map[int64]string, error) {
	out := make(map[int64]string, len(in))
	for k, tz := range in {
		userID, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "user key %q", k)
		}
		out[userID] = tz
	}
	return out, nil
}
