package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/CommandLineFox/NotificationBot/models"
	"github.com/CommandLineFox/NotificationBot/repository"
)

// guildService implements the GuildService interface
type guildService struct {
	repo GuildRepository
}

// NewGuildService creates a new guild service
func NewGuildService(repo GuildRepository) GuildService {
	return &guildService{
		repo: repo,
	}
}

// classLabel returns the user-facing name of an event class.
func classLabel(class models.EventClass) string {
	switch class {
	case models.EventClassUpload:
		return "Upload"
	case models.EventClassLive:
		return "Live"
	default:
		return "Scheduled stream"
	}
}

func ptrEquals(p *string, value string) bool {
	return p != nil && *p == value
}

// AddChannel starts tracking a YouTube channel with all alert classes
// enabled and makes it the guild's current channel.
func (s *guildService) AddChannel(ctx context.Context, guildID, channelID string) (models.Response, error) {
	channel := &models.TrackedChannel{
		GuildID:         guildID,
		ChannelID:       channelID,
		UploadEnabled:   true,
		LiveEnabled:     true,
		ScheduleEnabled: true,
	}

	if err := s.repo.AddChannel(ctx, channel); err != nil {
		if errors.Is(err, repository.ErrChannelExists) {
			return models.Response{Success: false, Message: "Channel is already being tracked."}, nil
		}
		return models.Response{}, fmt.Errorf("failed to add channel: %w", err)
	}

	if _, err := s.repo.SetCurrentChannel(ctx, guildID, &channelID); err != nil {
		return models.Response{}, fmt.Errorf("failed to set current channel: %w", err)
	}

	return models.Response{Success: true, Message: "Channel added successfully."}, nil
}

// RemoveChannel stops tracking a channel. If it was the current channel, the
// pointer moves to the most recently added remaining channel, or is cleared
// when none remain.
func (s *guildService) RemoveChannel(ctx context.Context, guildID, channelID string) (models.Response, error) {
	guild, err := s.repo.GetOrCreateGuild(ctx, guildID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get guild: %w", err)
	}

	removed, err := s.repo.RemoveChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to remove channel: %w", err)
	}
	if !removed {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if ptrEquals(guild.CurrentChannelID, channelID) {
		remaining, err := s.repo.GetChannels(ctx, guildID)
		if err != nil {
			return models.Response{}, fmt.Errorf("failed to get remaining channels: %w", err)
		}
		var next *string
		if len(remaining) > 0 {
			next = &remaining[len(remaining)-1].ChannelID
		}
		if _, err := s.repo.SetCurrentChannel(ctx, guildID, next); err != nil {
			return models.Response{}, fmt.Errorf("failed to reassign current channel: %w", err)
		}
	}

	return models.Response{Success: true, Message: "Channel removed successfully."}, nil
}

// ClearChannels stops tracking every channel and clears the current pointer.
func (s *guildService) ClearChannels(ctx context.Context, guildID string) (models.Response, error) {
	if _, err := s.repo.ClearChannels(ctx, guildID); err != nil {
		return models.Response{}, fmt.Errorf("failed to clear channels: %w", err)
	}

	if _, err := s.repo.SetCurrentChannel(ctx, guildID, nil); err != nil {
		return models.Response{}, fmt.Errorf("failed to clear current channel: %w", err)
	}

	return models.Response{Success: true, Message: "All channels cleared."}, nil
}

// GetChannels returns the guild's tracked channels in tracking order.
func (s *guildService) GetChannels(ctx context.Context, guildID string) ([]*models.TrackedChannel, error) {
	return s.repo.GetChannels(ctx, guildID)
}

// GetChannelConfig returns one tracked channel's configuration, or nil.
func (s *guildService) GetChannelConfig(ctx context.Context, guildID, channelID string) (*models.TrackedChannel, error) {
	return s.repo.GetChannel(ctx, guildID, channelID)
}

// GetEnabled reports whether one alert class is on. Untracked channels read
// as disabled.
func (s *guildService) GetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass) (bool, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return false, nil
	}
	return channel.Enabled(class), nil
}

// GetDestination returns one class's delivery channel, or "" when unset.
func (s *guildService) GetDestination(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil || channel.Destination(class) == nil {
		return "", nil
	}
	return *channel.Destination(class), nil
}

// GetMention returns one class's mention target, or "" when unset.
func (s *guildService) GetMention(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil || channel.Mention(class) == nil {
		return "", nil
	}
	return *channel.Mention(class), nil
}

// GetCursor returns one class's last-notified video ID, or "" when unset.
func (s *guildService) GetCursor(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil || channel.Cursor(class) == nil {
		return "", nil
	}
	return *channel.Cursor(class), nil
}

// SetEnabled enables or disables one alert class for a channel.
func (s *guildService) SetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass, enabled bool) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}

	if channel.Enabled(class) == enabled {
		return models.Response{Success: false, Message: fmt.Sprintf("%s alerts are already %s.", classLabel(class), state)}, nil
	}

	if _, err := s.repo.SetEnabled(ctx, guildID, channelID, class, enabled); err != nil {
		return models.Response{}, fmt.Errorf("failed to update enabled flag: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s alerts %s.", classLabel(class), state)}, nil
}

// SetDestination sets the Discord channel one alert class posts to.
func (s *guildService) SetDestination(ctx context.Context, guildID, channelID string, class models.EventClass, destination string) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if ptrEquals(channel.Destination(class), destination) {
		return models.Response{Success: false, Message: fmt.Sprintf("%s notification channel is already set to that channel.", classLabel(class))}, nil
	}

	if _, err := s.repo.SetDestination(ctx, guildID, channelID, class, &destination); err != nil {
		return models.Response{}, fmt.Errorf("failed to set destination: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s notification channel set.", classLabel(class))}, nil
}

// ClearDestination unsets the Discord channel for one alert class.
func (s *guildService) ClearDestination(ctx context.Context, guildID, channelID string, class models.EventClass) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if channel.Destination(class) == nil {
		return models.Response{Success: false, Message: fmt.Sprintf("%s notification channel is not set.", classLabel(class))}, nil
	}

	if _, err := s.repo.SetDestination(ctx, guildID, channelID, class, nil); err != nil {
		return models.Response{}, fmt.Errorf("failed to clear destination: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s notification channel removed.", classLabel(class))}, nil
}

// SetMention sets the role mentioned by one alert class.
func (s *guildService) SetMention(ctx context.Context, guildID, channelID string, class models.EventClass, mention string) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if ptrEquals(channel.Mention(class), mention) {
		return models.Response{Success: false, Message: fmt.Sprintf("%s mention role is already set to that role.", classLabel(class))}, nil
	}

	if _, err := s.repo.SetMention(ctx, guildID, channelID, class, &mention); err != nil {
		return models.Response{}, fmt.Errorf("failed to set mention: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s mention role set.", classLabel(class))}, nil
}

// ClearMention unsets the mention role for one alert class.
func (s *guildService) ClearMention(ctx context.Context, guildID, channelID string, class models.EventClass) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if channel.Mention(class) == nil {
		return models.Response{Success: false, Message: fmt.Sprintf("%s mention role is not set.", classLabel(class))}, nil
	}

	if _, err := s.repo.SetMention(ctx, guildID, channelID, class, nil); err != nil {
		return models.Response{}, fmt.Errorf("failed to clear mention: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s mention role removed.", classLabel(class))}, nil
}

// SetCursor overwrites one class's last-notified video ID. Exposed for the
// command layer; the poll loop advances cursors through the notifier.
func (s *guildService) SetCursor(ctx context.Context, guildID, channelID string, class models.EventClass, videoID string) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if channel.CursorMatches(class, videoID) {
		return models.Response{Success: false, Message: fmt.Sprintf("%s cursor is already set to that video.", classLabel(class))}, nil
	}

	if _, err := s.repo.SetCursor(ctx, guildID, channelID, class, &videoID); err != nil {
		return models.Response{}, fmt.Errorf("failed to set cursor: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s cursor updated.", classLabel(class))}, nil
}

// ClearCursor unsets one class's last-notified video ID, making the newest
// matching video eligible for notification again.
func (s *guildService) ClearCursor(ctx context.Context, guildID, channelID string, class models.EventClass) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	if channel.Cursor(class) == nil {
		return models.Response{Success: false, Message: fmt.Sprintf("%s cursor is not set.", classLabel(class))}, nil
	}

	if _, err := s.repo.SetCursor(ctx, guildID, channelID, class, nil); err != nil {
		return models.Response{}, fmt.Errorf("failed to clear cursor: %w", err)
	}

	return models.Response{Success: true, Message: fmt.Sprintf("%s cursor cleared.", classLabel(class))}, nil
}

// SetCurrentChannel points subsequent single-target commands at a tracked
// channel.
func (s *guildService) SetCurrentChannel(ctx context.Context, guildID, channelID string) (models.Response, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return models.Response{Success: false, Message: "Channel not found."}, nil
	}

	guild, err := s.repo.GetOrCreateGuild(ctx, guildID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get guild: %w", err)
	}

	if ptrEquals(guild.CurrentChannelID, channelID) {
		return models.Response{Success: false, Message: "That channel is already the current channel."}, nil
	}

	if _, err := s.repo.SetCurrentChannel(ctx, guildID, &channelID); err != nil {
		return models.Response{}, fmt.Errorf("failed to set current channel: %w", err)
	}

	return models.Response{Success: true, Message: "Current channel set."}, nil
}

// GetCurrentChannel returns the current channel pointer, or "" when unset.
func (s *guildService) GetCurrentChannel(ctx context.Context, guildID string) (string, error) {
	guild, err := s.repo.GetOrCreateGuild(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("failed to get guild: %w", err)
	}
	if guild.CurrentChannelID == nil {
		return "", nil
	}
	return *guild.CurrentChannelID, nil
}

// ClearCurrentChannel unsets the current channel pointer.
func (s *guildService) ClearCurrentChannel(ctx context.Context, guildID string) (models.Response, error) {
	guild, err := s.repo.GetOrCreateGuild(ctx, guildID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to get guild: %w", err)
	}

	if guild.CurrentChannelID == nil {
		return models.Response{Success: false, Message: "Current channel is not set."}, nil
	}

	if _, err := s.repo.SetCurrentChannel(ctx, guildID, nil); err != nil {
		return models.Response{}, fmt.Errorf("failed to clear current channel: %w", err)
	}

	return models.Response{Success: true, Message: "Current channel cleared."}, nil
}
