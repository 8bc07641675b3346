package service

import (
	"context"

	"github.com/CommandLineFox/NotificationBot/models"
)

// GuildRepository defines the interface for guild notification state access
type GuildRepository interface {
	// GetOrCreateGuild retrieves a guild, creating an empty row on first access
	GetOrCreateGuild(ctx context.Context, guildID string) (*models.Guild, error)

	// ListGuilds returns every guild with its tracked channels in insertion order
	ListGuilds(ctx context.Context) ([]*models.Guild, error)

	// GetChannels returns the guild's tracked channels in insertion order
	GetChannels(ctx context.Context, guildID string) ([]*models.TrackedChannel, error)

	// GetChannel retrieves one tracked channel, or nil if not tracked
	GetChannel(ctx context.Context, guildID, channelID string) (*models.TrackedChannel, error)

	// AddChannel appends a tracked channel; repository.ErrChannelExists on duplicates
	AddChannel(ctx context.Context, channel *models.TrackedChannel) error

	// RemoveChannel deletes a tracked channel, reporting whether it existed
	RemoveChannel(ctx context.Context, guildID, channelID string) (bool, error)

	// ClearChannels deletes all tracked channels, returning the removed count
	ClearChannels(ctx context.Context, guildID string) (int64, error)

	// SetEnabled updates one class's enable flag
	SetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass, enabled bool) (bool, error)

	// SetDestination updates one class's delivery channel; nil clears it
	SetDestination(ctx context.Context, guildID, channelID string, class models.EventClass, destination *string) (bool, error)

	// SetMention updates one class's mention target; nil clears it
	SetMention(ctx context.Context, guildID, channelID string, class models.EventClass, mention *string) (bool, error)

	// SetCursor updates one class's last-notified video ID; nil clears it
	SetCursor(ctx context.Context, guildID, channelID string, class models.EventClass, videoID *string) (bool, error)

	// CacheUploadsPlaylist records the resolved uploads playlist without
	// overwriting an existing value
	CacheUploadsPlaylist(ctx context.Context, guildID, channelID, playlistID string) (bool, error)

	// SetCurrentChannel updates the guild's current-channel pointer; nil clears it
	SetCurrentChannel(ctx context.Context, guildID string, channelID *string) (bool, error)
}

// VideoAPI is the read-only surface of the video platform the notifier
// consumes. All three lookups may fail transiently; failures mean "no result
// this cycle" and are retried on the next sweep.
type VideoAPI interface {
	// UploadsPlaylistID maps a channel to its uploads playlist; "" when the
	// channel is unknown
	UploadsPlaylistID(ctx context.Context, channelID string) (string, error)

	// LatestVideoID returns the newest item of a playlist in the platform's
	// own ordering; "" when the playlist is empty
	LatestVideoID(ctx context.Context, playlistID string) (string, error)

	// VideoStatus classifies a video's live-broadcast lifecycle phase
	VideoStatus(ctx context.Context, videoID string) (models.VideoStatus, error)
}

// GuildService is the command-facing API for managing tracked channels.
// Mutators return a Response whose message is safe to show to the invoking
// user; errors are reserved for storage failures.
type GuildService interface {
	AddChannel(ctx context.Context, guildID, channelID string) (models.Response, error)
	RemoveChannel(ctx context.Context, guildID, channelID string) (models.Response, error)
	ClearChannels(ctx context.Context, guildID string) (models.Response, error)
	GetChannels(ctx context.Context, guildID string) ([]*models.TrackedChannel, error)
	GetChannelConfig(ctx context.Context, guildID, channelID string) (*models.TrackedChannel, error)

	GetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass) (bool, error)
	GetDestination(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error)
	GetMention(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error)
	GetCursor(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error)

	SetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass, enabled bool) (models.Response, error)
	SetDestination(ctx context.Context, guildID, channelID string, class models.EventClass, destination string) (models.Response, error)
	ClearDestination(ctx context.Context, guildID, channelID string, class models.EventClass) (models.Response, error)
	SetMention(ctx context.Context, guildID, channelID string, class models.EventClass, mention string) (models.Response, error)
	ClearMention(ctx context.Context, guildID, channelID string, class models.EventClass) (models.Response, error)
	SetCursor(ctx context.Context, guildID, channelID string, class models.EventClass, videoID string) (models.Response, error)
	ClearCursor(ctx context.Context, guildID, channelID string, class models.EventClass) (models.Response, error)

	SetCurrentChannel(ctx context.Context, guildID, channelID string) (models.Response, error)
	GetCurrentChannel(ctx context.Context, guildID string) (string, error)
	ClearCurrentChannel(ctx context.Context, guildID string) (models.Response, error)
}

// NotifierService decides novelty per (guild, channel, class) and advances
// the matching cursor. A non-empty return is a novelty signal that must
// trigger exactly one outbound notification.
type NotifierService interface {
	Check(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error)
}
