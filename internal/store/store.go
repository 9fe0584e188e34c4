package store

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

// Store is the timezone store used by the rest of the bot. It validates
// identifiers before writing and heals records that stopped validating.
type Store struct {
	repo Repo
	log  *zap.Logger
}

// New wraps a backend.
func New(repo Repo, log *zap.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// Close closes the backend.
func (s *Store) Close() error { return s.repo.Close() }

// SetTimezone normalizes and validates raw, then stores it for the member.
func (s *Store) SetTimezone(ctx context.Context, guildID, userID int64, raw string) (domain.Zone, error) {
	z, err := domain.LookupZone(raw)
	if err != nil {
		return domain.Zone{}, err
	}
	if err := s.repo.SetTimezone(ctx, guildID, userID, z.ID); err != nil {
		return domain.Zone{}, err
	}
	return z, nil
}

// Timezone returns the member's zone or domain.ErrNotFound.
func (s *Store) Timezone(ctx context.Context, guildID, userID int64) (domain.Zone, error) {
	id, err := s.repo.GetTimezone(ctx, guildID, userID)
	if err != nil {
		return domain.Zone{}, err
	}
	z, ok := s.resolve(ctx, guildID, userID, id)
	if !ok {
		return domain.Zone{}, domain.ErrNotFound
	}
	return z, nil
}

// Timezones returns every valid member zone in the guild ordered by user id.
func (s *Store) Timezones(ctx context.Context, guildID int64) ([]domain.MemberZone, error) {
	ids, err := s.repo.ListTimezones(ctx, guildID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]int64, 0, len(ids))
	for userID := range ids {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	out := make([]domain.MemberZone, 0, len(ids))
	for _, userID := range userIDs {
		z, ok := s.resolve(ctx, guildID, userID, ids[userID])
		if !ok {
			continue
		}
		out = append(out, domain.MemberZone{UserID: userID, Zone: z})
	}
	return out, nil
}

// resolve validates a stored identifier and prunes it if it drifted.
func (s *Store) resolve(ctx context.Context, guildID, userID int64, id string) (domain.Zone, bool) {
	z, err := domain.LookupZone(id)
	if err == nil {
		return z, true
	}
	s.log.Warn("invalid stored timezone, removing",
		zap.Int64("guild", guildID),
		zap.Int64("user", userID),
		zap.String("tz", id),
		zap.Error(errors.Wrap(domain.ErrDataDrift, err.Error())),
	)
	if err := s.repo.PruneTimezone(ctx, guildID, userID, id); err != nil {
		s.log.Error("prune timezone failed", zap.Int64("guild", guildID), zap.Int64("user", userID), zap.Error(err))
	}
	return domain.Zone{}, false
}

// RemoveTimezone clears the member's zone. Clearing an unset zone is not an error.
func (s *Store) RemoveTimezone(ctx context.Context, guildID, userID int64) error {
	return s.repo.RemoveTimezone(ctx, guildID, userID)
}

// TimeMessage returns the guild's persistent message location or domain.ErrNotFound.
func (s *Store) TimeMessage(ctx context.Context, guildID int64) (domain.MessageLocation, error) {
	return s.repo.GetTimeMessage(ctx, guildID)
}

// TimeMessages lists every persisted message location.
func (s *Store) TimeMessages(ctx context.Context) ([]domain.MessageLocation, error) {
	return s.repo.ListTimeMessages(ctx)
}

// SetTimeMessage replaces the guild's persistent message location.
func (s *Store) SetTimeMessage(ctx context.Context, loc domain.MessageLocation) error {
	return s.repo.SetTimeMessage(ctx, loc)
}

// RemoveTimeMessage forgets the guild's persistent message location.
func (s *Store) RemoveTimeMessage(ctx context.Context, guildID int64) error {
	return s.repo.RemoveTimeMessage(ctx, guildID)
}

// PruneTimeMessage forgets the guild's persistent message only while the
// record still points at loc.
func (s *Store) PruneTimeMessage(ctx context.Context, loc domain.MessageLocation) error {
	return s.repo.PruneTimeMessage(ctx, loc)
}

// Copy writes every record of src into dst and returns how many timezones
// and messages were copied.
func Copy(ctx context.Context, dst, src Repo) (timezones, messages int, err error) {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "read source")
	}
	for guildID, st := range snap {
		for userID, tz := range st.Timezones {
			if err := dst.SetTimezone(ctx, guildID, userID, tz); err != nil {
				return timezones, messages, errors.Wrapf(err, "copy timezone %d/%d", guildID, userID)
			}
			timezones++
		}
		if st.TimeMessage != nil {
			if err := dst.SetTimeMessage(ctx, *st.TimeMessage); err != nil {
				return timezones, messages, errors.Wrapf(err, "copy time message %d", guildID)
			}
			messages++
		}
	}
	return timezones, messages, nil
}

func sortLocations(locs []domain.MessageLocation) {
	sort.Slice(locs, func(i, j int) bool { return locs[i].GuildID < locs[j].GuildID })
}
