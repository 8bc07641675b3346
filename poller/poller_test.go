package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CommandLineFox/NotificationBot/events"
	"github.com/CommandLineFox/NotificationBot/models"
)

type mockGuildLister struct {
	mock.Mock
}

func (m *mockGuildLister) ListGuilds(ctx context.Context) ([]*models.Guild, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guild), args.Error(1)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Check(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error) {
	args := m.Called(ctx, guildID, channelID, class)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string {
	return &s
}

func testConfig() Config {
	return Config{
		BaseInterval:  time.Minute,
		RetryInterval: 30 * time.Second,
	}
}

func guildWithChannel(guildID string, channel *models.TrackedChannel) *models.Guild {
	return &models.Guild{
		ID:       guildID,
		Channels: []*models.TrackedChannel{channel},
	}
}

func collectNotifications(bus *events.Bus) *[]models.Notification {
	collected := &[]models.Notification{}
	bus.Subscribe(events.EventTypeNotification, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.NotificationEvent); ok {
			*collected = append(*collected, e.Notification)
		}
	})
	return collected
}

func TestPoller_SweepIntervalScalesWithGuilds(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	p := New(testConfig(), lister, checker, events.NewBus())

	lister.On("ListGuilds", ctx).Return([]*models.Guild{
		{ID: "g1"}, {ID: "g2"}, {ID: "g3"},
	}, nil).Once()

	assert.Equal(t, 3*time.Minute, p.sweepOnce(ctx))
}

func TestPoller_EmptySweepUsesBaseInterval(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	p := New(testConfig(), lister, checker, events.NewBus())

	lister.On("ListGuilds", ctx).Return([]*models.Guild{}, nil).Once()

	assert.Equal(t, time.Minute, p.sweepOnce(ctx))
}

func TestPoller_RetryIntervalOnEnumerationFailure(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	p := New(testConfig(), lister, checker, events.NewBus())

	lister.On("ListGuilds", ctx).Return(nil, errors.New("connection refused")).Once()

	assert.Equal(t, 30*time.Second, p.sweepOnce(ctx))
	checker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPoller_DisabledClassesSkipped(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	p := New(testConfig(), lister, checker, events.NewBus())

	channel := &models.TrackedChannel{
		GuildID:       "g1",
		ChannelID:     "UC1",
		UploadEnabled: true,
		// live and scheduled disabled
	}
	lister.On("ListGuilds", ctx).Return([]*models.Guild{guildWithChannel("g1", channel)}, nil).Once()
	checker.On("Check", ctx, "g1", "UC1", models.EventClassUpload).Return("", nil).Once()

	p.sweepOnce(ctx)

	checker.AssertExpectations(t)
	checker.AssertNotCalled(t, "Check", ctx, "g1", "UC1", models.EventClassLive)
	checker.AssertNotCalled(t, "Check", ctx, "g1", "UC1", models.EventClassScheduled)
}

func TestPoller_CheckErrorDoesNotStopSweep(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	bus := events.NewBus()
	notifications := collectNotifications(bus)
	p := New(testConfig(), lister, checker, bus)

	failing := &models.TrackedChannel{GuildID: "g1", ChannelID: "UC1", UploadEnabled: true}
	healthy := &models.TrackedChannel{
		GuildID:           "g1",
		ChannelID:         "UC2",
		UploadEnabled:     true,
		UploadDestination: strPtr("d1"),
		UploadMention:     strPtr("r1"),
	}
	guild := &models.Guild{ID: "g1", Channels: []*models.TrackedChannel{failing, healthy}}

	lister.On("ListGuilds", ctx).Return([]*models.Guild{guild}, nil).Once()
	checker.On("Check", ctx, "g1", "UC1", models.EventClassUpload).Return("", errors.New("quota exceeded")).Once()
	checker.On("Check", ctx, "g1", "UC2", models.EventClassUpload).Return("V1", nil).Once()

	p.sweepOnce(ctx)

	checker.AssertExpectations(t)
	assert.Len(t, *notifications, 1)
	assert.Equal(t, "UC2", (*notifications)[0].ChannelID)
}

func TestPoller_DropsWithoutDestination(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	bus := events.NewBus()
	notifications := collectNotifications(bus)
	p := New(testConfig(), lister, checker, bus)

	// Novelty with no delivery destination configured: the cursor already
	// advanced inside the checker, the message is simply not sent.
	channel := &models.TrackedChannel{
		GuildID:       "g1",
		ChannelID:     "UC1",
		UploadEnabled: true,
		UploadMention: strPtr("r1"),
	}
	lister.On("ListGuilds", ctx).Return([]*models.Guild{guildWithChannel("g1", channel)}, nil).Once()
	checker.On("Check", ctx, "g1", "UC1", models.EventClassUpload).Return("V1", nil).Once()

	p.sweepOnce(ctx)

	assert.Empty(t, *notifications)
}

func TestPoller_PublishesConfiguredNotification(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	bus := events.NewBus()
	notifications := collectNotifications(bus)
	p := New(testConfig(), lister, checker, bus)

	channel := &models.TrackedChannel{
		GuildID:         "g1",
		ChannelID:       "UC1",
		LiveEnabled:     true,
		LiveDestination: strPtr("d-live"),
		LiveMention:     strPtr("r-live"),
	}
	lister.On("ListGuilds", ctx).Return([]*models.Guild{guildWithChannel("g1", channel)}, nil).Once()
	checker.On("Check", ctx, "g1", "UC1", models.EventClassLive).Return("V9", nil).Once()

	p.sweepOnce(ctx)

	assert.Len(t, *notifications, 1)
	got := (*notifications)[0]
	assert.Equal(t, "g1", got.GuildID)
	assert.Equal(t, "UC1", got.ChannelID)
	assert.Equal(t, "V9", got.VideoID)
	assert.Equal(t, models.EventClassLive, got.Class)
	assert.Equal(t, "d-live", got.Destination)
	assert.Equal(t, "r-live", got.Mention)
}

func TestPoller_InflightChannelSkipped(t *testing.T) {
	ctx := context.Background()
	lister := new(mockGuildLister)
	checker := new(mockChecker)
	p := New(testConfig(), lister, checker, events.NewBus())

	channel := &models.TrackedChannel{GuildID: "g1", ChannelID: "UC1", UploadEnabled: true}
	lister.On("ListGuilds", ctx).Return([]*models.Guild{guildWithChannel("g1", channel)}, nil).Once()

	// Simulate a check from a previous sweep that has not finished.
	p.inflight.TryEnter("g1", "UC1")

	p.sweepOnce(ctx)

	checker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
