package scheduler_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
	"github.com/Taaku18/timezone-bot/internal/metrics"
	"github.com/Taaku18/timezone-bot/internal/scheduler"
	"github.com/Taaku18/timezone-bot/internal/scheduler/mocks"
	"github.com/Taaku18/timezone-bot/internal/store"
	"github.com/Taaku18/timezone-bot/internal/timemsg"
)

func loc(guildID int64) domain.MessageLocation {
	return domain.MessageLocation{GuildID: guildID, ChannelID: guildID * 10, MessageID: guildID * 100}
}

// newCache returns a cache filled with the given guilds, backed by a real
// JSON store that also holds their records.
func newCache(t *testing.T, guilds ...int64) (*timemsg.Cache, *store.Store) {
	t.Helper()
	repo, err := store.OpenJSON(filepath.Join(t.TempDir(), "timezones.json"))
	require.NoError(t, err)
	st := store.New(repo, zap.NewNop())

	c := timemsg.New(st, nil, zap.NewNop())
	for _, g := range guilds {
		require.NoError(t, st.SetTimeMessage(context.Background(), loc(g)))
		c.Put(g, timemsg.Handle{Location: loc(g)})
	}
	return c, st
}

func TestScheduler_Tick(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	platform := mocks.NewMockPlatform(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)
	m := metrics.New(prometheus.NewRegistry())

	// 1 healthy, 2 channel deleted, 3 guild gone, 4 no permission, 5 transient edit failure.
	cache, st := newCache(t, 1, 2, 3, 4, 5)
	embed := domain.Embed{Title: "What's the time?"}

	for _, g := range []int64{1, 2, 4, 5} {
		platform.EXPECT().GuildAvailable(g).Return(true).Times(2)
	}
	platform.EXPECT().GuildAvailable(int64(3)).Return(false).Times(1)

	platform.EXPECT().CanSend(loc(1)).Return(true, nil).Times(2)
	platform.EXPECT().CanSend(loc(2)).Return(false, errors.Wrap(domain.ErrNotFound, "unknown channel")).Times(1)
	platform.EXPECT().CanSend(loc(4)).Return(false, nil).Times(2)
	platform.EXPECT().CanSend(loc(5)).Return(true, nil).Times(2)

	renderer.EXPECT().Embed(gomock.Any(), int64(1), true).Return(embed, nil).Times(2)
	renderer.EXPECT().Embed(gomock.Any(), int64(5), true).Return(embed, nil).Times(2)

	platform.EXPECT().EditEmbed(gomock.Any(), loc(1), embed).Return(nil).Times(2)
	platform.EXPECT().EditEmbed(gomock.Any(), loc(5), embed).Return(errors.Wrap(domain.ErrUnavailable, "502")).Times(2)

	s := scheduler.New(cache, renderer, platform, zap.NewNop(), m, time.Hour)

	s.Tick(ctx)
	assert.Equal(t, []int64{1, 4, 5}, cache.Guilds())
	for _, g := range []int64{2, 3} {
		_, err := st.TimeMessage(ctx, g)
		assert.ErrorIs(t, err, domain.ErrNotFound, "record for guild %d removed", g)
	}
	_, err := st.TimeMessage(ctx, 4)
	assert.NoError(t, err, "missing permission keeps the record")

	// The dropped guilds are no longer visited.
	s.Tick(ctx)
	assert.Equal(t, []int64{1, 4, 5}, cache.Guilds())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.ResultUpdated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.ResultGuildGone)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.ResultNoPermission)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.ResultError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CachedMessages))
}

func TestScheduler_TickDropsDeletedMessage(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	platform := mocks.NewMockPlatform(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)
	cache, st := newCache(t, 7)

	platform.EXPECT().GuildAvailable(int64(7)).Return(true)
	platform.EXPECT().CanSend(loc(7)).Return(true, nil)
	renderer.EXPECT().Embed(gomock.Any(), int64(7), true).Return(domain.Embed{}, nil)
	platform.EXPECT().EditEmbed(gomock.Any(), loc(7), gomock.Any()).Return(errors.Wrap(domain.ErrNotFound, "unknown message"))

	scheduler.New(cache, renderer, platform, zap.NewNop(), nil, 0).Tick(ctx)

	assert.Zero(t, cache.Len())
	_, err := st.TimeMessage(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduler_TickKeepsMessageSentDuringEdit(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	platform := mocks.NewMockPlatform(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)
	cache, st := newCache(t, 7)
	fresh := domain.MessageLocation{GuildID: 7, ChannelID: 70, MessageID: 999}

	platform.EXPECT().GuildAvailable(int64(7)).Return(true)
	platform.EXPECT().CanSend(loc(7)).Return(true, nil)
	renderer.EXPECT().Embed(gomock.Any(), int64(7), true).Return(domain.Embed{}, nil)
	// The old message is replaced and deleted while its edit is in flight.
	platform.EXPECT().EditEmbed(gomock.Any(), loc(7), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.MessageLocation, _ domain.Embed) error {
			require.NoError(t, st.SetTimeMessage(ctx, fresh))
			cache.Put(7, timemsg.Handle{Location: fresh})
			return errors.Wrap(domain.ErrNotFound, "unknown message")
		})

	scheduler.New(cache, renderer, platform, zap.NewNop(), nil, 0).Tick(ctx)

	h, ok := cache.Get(7)
	require.True(t, ok)
	assert.Equal(t, fresh, h.Location)
	got, err := st.TimeMessage(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestScheduler_TickSurvivesPanicsAndRenderErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	platform := mocks.NewMockPlatform(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)
	cache, _ := newCache(t, 1, 2, 3)

	platform.EXPECT().GuildAvailable(gomock.Any()).Return(true).Times(3)
	platform.EXPECT().CanSend(gomock.Any()).Return(true, nil).Times(3)
	renderer.EXPECT().Embed(gomock.Any(), int64(1), true).DoAndReturn(
		func(context.Context, int64, bool) (domain.Embed, error) { panic("boom") })
	renderer.EXPECT().Embed(gomock.Any(), int64(2), true).Return(domain.Embed{}, errors.New("store down"))
	renderer.EXPECT().Embed(gomock.Any(), int64(3), true).Return(domain.Embed{}, nil)
	platform.EXPECT().EditEmbed(gomock.Any(), loc(3), gomock.Any()).Return(nil)

	scheduler.New(cache, renderer, platform, zap.NewNop(), nil, 0).Tick(context.Background())
	assert.Equal(t, 3, cache.Len())
}

func TestScheduler_RunSkipsOverlappingTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	platform := mocks.NewMockPlatform(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)
	m := metrics.New(prometheus.NewRegistry())

	cache.EXPECT().Guilds().Return([]int64{1}).AnyTimes()
	cache.EXPECT().Get(int64(1)).Return(timemsg.Handle{Location: loc(1)}, true).AnyTimes()
	cache.EXPECT().Len().Return(1).AnyTimes()
	platform.EXPECT().GuildAvailable(int64(1)).Return(true).AnyTimes()
	platform.EXPECT().CanSend(loc(1)).Return(true, nil).AnyTimes()
	platform.EXPECT().EditEmbed(gomock.Any(), loc(1), gomock.Any()).Return(nil).AnyTimes()

	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	var calls atomic.Int32
	renderer.EXPECT().Embed(gomock.Any(), int64(1), true).DoAndReturn(
		func(context.Context, int64, bool) (domain.Embed, error) {
			calls.Add(1)
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
			return domain.Embed{}, nil
		}).AnyTimes()

	s := scheduler.New(cache, renderer, platform, zap.NewNop(), m, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	<-entered
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.TicksSkipped) >= 3
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "skipped ticks are not queued")

	close(release)
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
