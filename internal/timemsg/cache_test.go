package timemsg_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Taaku18/timezone-bot/internal/domain"
	"github.com/Taaku18/timezone-bot/internal/timemsg"
	"github.com/Taaku18/timezone-bot/internal/timemsg/mocks"
)

func TestCache_Reconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	fetcher := mocks.NewMockFetcher(ctrl)
	ctx := context.Background()

	live := domain.MessageLocation{GuildID: 1, ChannelID: 10, MessageID: 100}
	deleted := domain.MessageLocation{GuildID: 2, ChannelID: 20, MessageID: 200}
	revoked := domain.MessageLocation{GuildID: 3, ChannelID: 30, MessageID: 300}
	alsoLive := domain.MessageLocation{GuildID: 4, ChannelID: 40, MessageID: 400}

	records.EXPECT().TimeMessages(gomock.Any()).
		Return([]domain.MessageLocation{live, deleted, revoked, alsoLive}, nil)
	fetcher.EXPECT().FetchMessage(gomock.Any(), live).Return(nil)
	fetcher.EXPECT().FetchMessage(gomock.Any(), deleted).Return(errors.New("unknown message"))
	fetcher.EXPECT().FetchMessage(gomock.Any(), revoked).Return(errors.New("missing access"))
	fetcher.EXPECT().FetchMessage(gomock.Any(), alsoLive).Return(nil)
	records.EXPECT().PruneTimeMessage(gomock.Any(), deleted).Return(nil)
	records.EXPECT().PruneTimeMessage(gomock.Any(), revoked).Return(errors.New("disk full"))

	c := timemsg.New(records, fetcher, zap.NewNop())
	require.NoError(t, c.Reconcile(ctx))

	assert.Equal(t, []int64{1, 4}, c.Guilds())
	h, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, live, h.Location)
	_, ok = c.Get(2)
	assert.False(t, ok)
}

func TestCache_ReconcileStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	fetcher := mocks.NewMockFetcher(ctrl)

	boom := errors.New("boom")
	records.EXPECT().TimeMessages(gomock.Any()).Return(nil, boom)

	c := timemsg.New(records, fetcher, zap.NewNop())
	assert.ErrorIs(t, c.Reconcile(context.Background()), boom)
	assert.Zero(t, c.Len())
}

func TestCache_MapOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	c := timemsg.New(records, mocks.NewMockFetcher(ctrl), zap.NewNop())

	a := timemsg.Handle{Location: domain.MessageLocation{GuildID: 5, ChannelID: 1, MessageID: 2}}
	b := timemsg.Handle{Location: domain.MessageLocation{GuildID: 5, ChannelID: 3, MessageID: 4}}

	c.Put(5, a)
	c.Put(5, b)
	got, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, b, got, "put replaces")

	c.Evict(5)
	_, ok = c.Get(5)
	assert.False(t, ok)
	c.Evict(5)

	c.Put(6, a)
	records.EXPECT().RemoveTimeMessage(gomock.Any(), int64(6)).Return(nil)
	require.NoError(t, c.Remove(context.Background(), 6))
	assert.Zero(t, c.Len())
}

func TestCache_RemoveIfKeepsReplacement(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	c := timemsg.New(records, mocks.NewMockFetcher(ctrl), zap.NewNop())
	ctx := context.Background()

	stale := domain.MessageLocation{GuildID: 5, ChannelID: 1, MessageID: 2}
	fresh := domain.MessageLocation{GuildID: 5, ChannelID: 1, MessageID: 3}
	c.Put(5, timemsg.Handle{Location: fresh})

	records.EXPECT().PruneTimeMessage(gomock.Any(), stale).Return(nil)
	require.NoError(t, c.RemoveIf(ctx, stale))
	got, ok := c.Get(5)
	require.True(t, ok, "newer handle kept")
	assert.Equal(t, fresh, got.Location)

	records.EXPECT().PruneTimeMessage(gomock.Any(), fresh).Return(nil)
	require.NoError(t, c.RemoveIf(ctx, fresh))
	_, ok = c.Get(5)
	assert.False(t, ok)
}
