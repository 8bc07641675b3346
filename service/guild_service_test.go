package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CommandLineFox/NotificationBot/models"
	"github.com/CommandLineFox/NotificationBot/repository"
)

func TestGuildService_AddChannel(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	mockRepo.On("AddChannel", ctx, mock.MatchedBy(func(c *models.TrackedChannel) bool {
		return c.GuildID == "g1" && c.ChannelID == "UC123" &&
			c.UploadEnabled && c.LiveEnabled && c.ScheduleEnabled
	})).Return(nil).Once()
	// The new channel immediately becomes the current channel.
	mockRepo.On("SetCurrentChannel", ctx, "g1", cursorValue("UC123")).Return(true, nil).Once()

	resp, err := svc.AddChannel(ctx, "g1", "UC123")
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	mockRepo.AssertExpectations(t)
}

func TestGuildService_AddChannel_AlreadyTracked(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	mockRepo.On("AddChannel", ctx, mock.Anything).Return(repository.ErrChannelExists).Once()

	resp, err := svc.AddChannel(ctx, "g1", "UC123")
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Channel is already being tracked.", resp.Message)

	mockRepo.AssertNotCalled(t, "SetCurrentChannel", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildService_RemoveChannel_ReassignsCurrent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	// UC3 is current; removing it must point at the most recently added of
	// the remaining channels (UC2, added after UC1).
	guild := &models.Guild{ID: "g1", CurrentChannelID: strPtr("UC3")}
	remaining := []*models.TrackedChannel{
		{ID: 1, GuildID: "g1", ChannelID: "UC1"},
		{ID: 2, GuildID: "g1", ChannelID: "UC2"},
	}

	mockRepo.On("GetOrCreateGuild", ctx, "g1").Return(guild, nil).Once()
	mockRepo.On("RemoveChannel", ctx, "g1", "UC3").Return(true, nil).Once()
	mockRepo.On("GetChannels", ctx, "g1").Return(remaining, nil).Once()
	mockRepo.On("SetCurrentChannel", ctx, "g1", cursorValue("UC2")).Return(true, nil).Once()

	resp, err := svc.RemoveChannel(ctx, "g1", "UC3")
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	mockRepo.AssertExpectations(t)
}

func TestGuildService_RemoveChannel_LastChannelClearsCurrent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	guild := &models.Guild{ID: "g1", CurrentChannelID: strPtr("UC1")}

	mockRepo.On("GetOrCreateGuild", ctx, "g1").Return(guild, nil).Once()
	mockRepo.On("RemoveChannel", ctx, "g1", "UC1").Return(true, nil).Once()
	mockRepo.On("GetChannels", ctx, "g1").Return([]*models.TrackedChannel{}, nil).Once()
	mockRepo.On("SetCurrentChannel", ctx, "g1", clearedCursor).Return(true, nil).Once()

	resp, err := svc.RemoveChannel(ctx, "g1", "UC1")
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	mockRepo.AssertExpectations(t)
}

func TestGuildService_RemoveChannel_NotCurrentLeavesPointer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	guild := &models.Guild{ID: "g1", CurrentChannelID: strPtr("UC1")}

	mockRepo.On("GetOrCreateGuild", ctx, "g1").Return(guild, nil).Once()
	mockRepo.On("RemoveChannel", ctx, "g1", "UC2").Return(true, nil).Once()

	resp, err := svc.RemoveChannel(ctx, "g1", "UC2")
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	mockRepo.AssertNotCalled(t, "SetCurrentChannel", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildService_RemoveChannel_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	guild := &models.Guild{ID: "g1"}

	mockRepo.On("GetOrCreateGuild", ctx, "g1").Return(guild, nil).Once()
	mockRepo.On("RemoveChannel", ctx, "g1", "UC404").Return(false, nil).Once()

	resp, err := svc.RemoveChannel(ctx, "g1", "UC404")
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Channel not found.", resp.Message)
}

func TestGuildService_ClearChannels(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	mockRepo.On("ClearChannels", ctx, "g1").Return(int64(2), nil).Once()
	mockRepo.On("SetCurrentChannel", ctx, "g1", clearedCursor).Return(true, nil).Once()

	resp, err := svc.ClearChannels(ctx, "g1")
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	mockRepo.AssertExpectations(t)
}

func TestGuildService_SetEnabled_NoOp(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	channel := trackedChannel("P1") // all classes enabled
	mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(channel, nil).Once()

	resp, err := svc.SetEnabled(ctx, "g1", "UC123", models.EventClassUpload, true)
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Upload alerts are already enabled.", resp.Message)

	mockRepo.AssertNotCalled(t, "SetEnabled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildService_SetEnabled(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	channel := trackedChannel("P1")
	mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(channel, nil).Once()
	mockRepo.On("SetEnabled", ctx, "g1", "UC123", models.EventClassLive, false).Return(true, nil).Once()

	resp, err := svc.SetEnabled(ctx, "g1", "UC123", models.EventClassLive, false)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Live alerts disabled.", resp.Message)
}

func TestGuildService_SetDestination_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	mockRepo.On("GetChannel", ctx, "g1", "UC404").Return(nil, nil).Once()

	resp, err := svc.SetDestination(ctx, "g1", "UC404", models.EventClassUpload, "d1")
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Channel not found.", resp.Message)
}

func TestGuildService_CursorLifecycle(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	withCursor := trackedChannel("P1")
	withCursor.LastUpload = strPtr("V1")

	t.Run("set", func(t *testing.T) {
		mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(trackedChannel("P1"), nil).Once()
		mockRepo.On("SetCursor", ctx, "g1", "UC123", models.EventClassUpload, cursorValue("V1")).Return(true, nil).Once()

		resp, err := svc.SetCursor(ctx, "g1", "UC123", models.EventClassUpload, "V1")
		assert.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("set same value is a no-op", func(t *testing.T) {
		mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(withCursor, nil).Once()

		resp, err := svc.SetCursor(ctx, "g1", "UC123", models.EventClassUpload, "V1")
		assert.NoError(t, err)
		assert.False(t, resp.Success)
	})

	t.Run("clear", func(t *testing.T) {
		mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(withCursor, nil).Once()
		mockRepo.On("SetCursor", ctx, "g1", "UC123", models.EventClassUpload, clearedCursor).Return(true, nil).Once()

		resp, err := svc.ClearCursor(ctx, "g1", "UC123", models.EventClassUpload)
		assert.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("clear unset cursor is a no-op", func(t *testing.T) {
		mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(trackedChannel("P1"), nil).Once()

		resp, err := svc.ClearCursor(ctx, "g1", "UC123", models.EventClassUpload)
		assert.NoError(t, err)
		assert.False(t, resp.Success)
	})
}

func TestGuildService_Getters(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	channel := trackedChannel("P1")
	channel.LiveDestination = strPtr("d-live")
	channel.LastUpload = strPtr("V1")
	mockRepo.On("GetChannel", ctx, "g1", "UC123").Return(channel, nil)
	mockRepo.On("GetChannel", ctx, "g1", "UC404").Return(nil, nil)

	enabled, err := svc.GetEnabled(ctx, "g1", "UC123", models.EventClassUpload)
	assert.NoError(t, err)
	assert.True(t, enabled)

	destination, err := svc.GetDestination(ctx, "g1", "UC123", models.EventClassLive)
	assert.NoError(t, err)
	assert.Equal(t, "d-live", destination)

	mention, err := svc.GetMention(ctx, "g1", "UC123", models.EventClassLive)
	assert.NoError(t, err)
	assert.Empty(t, mention)

	cursor, err := svc.GetCursor(ctx, "g1", "UC123", models.EventClassUpload)
	assert.NoError(t, err)
	assert.Equal(t, "V1", cursor)

	// Untracked channels read as unset.
	enabled, err = svc.GetEnabled(ctx, "g1", "UC404", models.EventClassUpload)
	assert.NoError(t, err)
	assert.False(t, enabled)
}

func TestGuildService_CurrentChannelPointer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGuildRepository)
	svc := NewGuildService(mockRepo)

	t.Run("set requires tracked channel", func(t *testing.T) {
		mockRepo.On("GetChannel", ctx, "g1", "UC404").Return(nil, nil).Once()

		resp, err := svc.SetCurrentChannel(ctx, "g1", "UC404")
		assert.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "Channel not found.", resp.Message)
	})

	t.Run("get returns empty when unset", func(t *testing.T) {
		mockRepo.On("GetOrCreateGuild", ctx, "g1").Return(&models.Guild{ID: "g1"}, nil).Once()

		current, err := svc.GetCurrentChannel(ctx, "g1")
		assert.NoError(t, err)
		assert.Empty(t, current)
	})

	t.Run("clear unset pointer is a no-op", func(t *testing.T) {
		mockRepo.On("GetOrCreateGuild", ctx, "g1").Return(&models.Guild{ID: "g1"}, nil).Once()

		resp, err := svc.ClearCurrentChannel(ctx, "g1")
		assert.NoError(t, err)
		assert.False(t, resp.Success)
	})
}
