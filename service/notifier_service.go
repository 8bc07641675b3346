package service

import (
	"context"
	"fmt"

	"github.com/CommandLineFox/NotificationBot/models"
)

// notifierService implements the NotifierService interface
type notifierService struct {
	repo GuildRepository
	api  VideoAPI
}

// NewNotifierService creates a new notifier service
func NewNotifierService(repo GuildRepository, api VideoAPI) NotifierService {
	return &notifierService{
		repo: repo,
		api:  api,
	}
}

// Check runs the dedup algorithm for one (guild, channel, class) triple and
// returns the video ID when a new event of that class was found. The cursor
// is advanced before returning, so a repeat call with unchanged external
// state returns "".
func (s *notifierService) Check(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error) {
	channel, err := s.repo.GetChannel(ctx, guildID, channelID)
	if err != nil {
		return "", err
	}
	if channel == nil {
		return "", nil
	}

	videoID, err := s.latestCandidate(ctx, channel)
	if err != nil || videoID == "" {
		return "", err
	}

	switch class {
	case models.EventClassUpload:
		// An item already announced as live must not also be announced as a
		// fresh upload.
		if channel.CursorMatches(models.EventClassUpload, videoID) || channel.CursorMatches(models.EventClassLive, videoID) {
			return "", nil
		}
		status, err := s.api.VideoStatus(ctx, videoID)
		if err != nil {
			return "", err
		}
		// Only true on-demand uploads qualify.
		if status != models.VideoStatusNone {
			return "", nil
		}

	case models.EventClassLive:
		status, err := s.api.VideoStatus(ctx, videoID)
		if err != nil {
			return "", err
		}
		if status != models.VideoStatusLive {
			return "", nil
		}
		if channel.CursorMatches(models.EventClassLive, videoID) {
			return "", nil
		}
		// The scheduled stream has started; its cursor is superseded.
		if channel.CursorMatches(models.EventClassScheduled, videoID) {
			if _, err := s.repo.SetCursor(ctx, guildID, channelID, models.EventClassScheduled, nil); err != nil {
				return "", err
			}
		}

	case models.EventClassScheduled:
		status, err := s.api.VideoStatus(ctx, videoID)
		if err != nil {
			return "", err
		}
		if status != models.VideoStatusUpcoming {
			return "", nil
		}
		if channel.CursorMatches(models.EventClassScheduled, videoID) || channel.CursorMatches(models.EventClassLive, videoID) {
			return "", nil
		}

	default:
		return "", fmt.Errorf("unknown event class %q", class)
	}

	if _, err := s.repo.SetCursor(ctx, guildID, channelID, class, &videoID); err != nil {
		return "", err
	}

	return videoID, nil
}

// latestCandidate resolves the uploads playlist (cached, or one lookup that
// is persisted on success) and fetches its newest item. Returns "" when the
// playlist cannot be resolved or is empty.
func (s *notifierService) latestCandidate(ctx context.Context, channel *models.TrackedChannel) (string, error) {
	playlistID := ""
	if channel.UploadsPlaylistID != nil {
		playlistID = *channel.UploadsPlaylistID
	}

	if playlistID == "" {
		resolved, err := s.api.UploadsPlaylistID(ctx, channel.ChannelID)
		if err != nil {
			return "", err
		}
		if resolved == "" {
			// Leave the field unset so a future poll retries.
			return "", nil
		}
		if _, err := s.repo.CacheUploadsPlaylist(ctx, channel.GuildID, channel.ChannelID, resolved); err != nil {
			return "", err
		}
		playlistID = resolved
	}

	return s.api.LatestVideoID(ctx, playlistID)
}
