package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/CommandLineFox/NotificationBot/models"
)

// MockGuildRepository is a mock implementation of GuildRepository
type MockGuildRepository struct {
	mock.Mock
}

func (m *MockGuildRepository) GetOrCreateGuild(ctx context.Context, guildID string) (*models.Guild, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guild), args.Error(1)
}

func (m *MockGuildRepository) ListGuilds(ctx context.Context) ([]*models.Guild, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guild), args.Error(1)
}

func (m *MockGuildRepository) GetChannels(ctx context.Context, guildID string) ([]*models.TrackedChannel, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrackedChannel), args.Error(1)
}

func (m *MockGuildRepository) GetChannel(ctx context.Context, guildID, channelID string) (*models.TrackedChannel, error) {
	args := m.Called(ctx, guildID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrackedChannel), args.Error(1)
}

func (m *MockGuildRepository) AddChannel(ctx context.Context, channel *models.TrackedChannel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockGuildRepository) RemoveChannel(ctx context.Context, guildID, channelID string) (bool, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) ClearChannels(ctx context.Context, guildID string) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGuildRepository) SetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass, enabled bool) (bool, error) {
	args := m.Called(ctx, guildID, channelID, class, enabled)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) SetDestination(ctx context.Context, guildID, channelID string, class models.EventClass, destination *string) (bool, error) {
	args := m.Called(ctx, guildID, channelID, class, destination)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) SetMention(ctx context.Context, guildID, channelID string, class models.EventClass, mention *string) (bool, error) {
	args := m.Called(ctx, guildID, channelID, class, mention)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) SetCursor(ctx context.Context, guildID, channelID string, class models.EventClass, videoID *string) (bool, error) {
	args := m.Called(ctx, guildID, channelID, class, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) CacheUploadsPlaylist(ctx context.Context, guildID, channelID, playlistID string) (bool, error) {
	args := m.Called(ctx, guildID, channelID, playlistID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) SetCurrentChannel(ctx context.Context, guildID string, channelID *string) (bool, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Bool(0), args.Error(1)
}

// MockVideoAPI is a mock implementation of VideoAPI
type MockVideoAPI struct {
	mock.Mock
}

func (m *MockVideoAPI) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	args := m.Called(ctx, channelID)
	return args.String(0), args.Error(1)
}

func (m *MockVideoAPI) LatestVideoID(ctx context.Context, playlistID string) (string, error) {
	args := m.Called(ctx, playlistID)
	return args.String(0), args.Error(1)
}

func (m *MockVideoAPI) VideoStatus(ctx context.Context, videoID string) (models.VideoStatus, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(models.VideoStatus), args.Error(1)
}
