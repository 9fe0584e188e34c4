package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

// GuildState is everything persisted for one guild.
type GuildState struct {
	Timezones   map[int64]string        // user id -> folded zone identifier
	TimeMessage *domain.MessageLocation // nil when unset
}

// Repo is a storage backend. Identifiers are stored as given; validation
// happens in Store. Every method is safe for concurrent use and each
// read-modify-write is atomic.
type Repo interface {
	SetTimezone(ctx context.Context, guildID, userID int64, tz string) error
	// GetTimezone returns domain.ErrNotFound when unset.
	GetTimezone(ctx context.Context, guildID, userID int64) (string, error)
	ListTimezones(ctx context.Context, guildID int64) (map[int64]string, error)
	RemoveTimezone(ctx context.Context, guildID, userID int64) error
	// PruneTimezone removes the record only while it still holds tz.
	PruneTimezone(ctx context.Context, guildID, userID int64, tz string) error

	// GetTimeMessage returns domain.ErrNotFound when unset.
	GetTimeMessage(ctx context.Context, guildID int64) (domain.MessageLocation, error)
	ListTimeMessages(ctx context.Context) ([]domain.MessageLocation, error)
	SetTimeMessage(ctx context.Context, loc domain.MessageLocation) error
	RemoveTimeMessage(ctx context.Context, guildID int64) error
	// PruneTimeMessage removes the record only while it still points at loc.
	PruneTimeMessage(ctx context.Context, loc domain.MessageLocation) error

	// Snapshot returns the whole persisted state keyed by guild id.
	Snapshot(ctx context.Context) (map[int64]GuildState, error)
	Close() error
}

// Backend drivers accepted by OpenRepo.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// OpenRepo opens the backend named by driver at path.
func OpenRepo(ctx context.Context, driver, path string) (Repo, error) {
	switch driver {
	case DriverJSON:
		return OpenJSON(path)
	case DriverSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, errors.Errorf("unknown store driver %q", driver)
	}
}
