package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/CommandLineFox/NotificationBot/database"
	"github.com/CommandLineFox/NotificationBot/models"
)

// ErrChannelExists is returned when adding a channel the guild already tracks.
var ErrChannelExists = errors.New("channel is already tracked")

const channelColumns = `
	id, guild_id, channel_id,
	upload_enabled, live_enabled, schedule_enabled,
	upload_destination, live_destination, schedule_destination,
	upload_mention, live_mention, schedule_mention,
	last_upload, last_live, last_scheduled,
	uploads_playlist_id, created_at, updated_at`

// GuildRepository provides typed access to guild notification state. It
// replaces the dynamic path-based document mutations of the storage layer
// with explicit per-field operations.
type GuildRepository struct {
	db *database.DB
}

// NewGuildRepository creates a new guild repository
func NewGuildRepository(db *database.DB) *GuildRepository {
	return &GuildRepository{db: db}
}

// enabledColumn maps an event class to its enable-flag column. The class
// values are a closed set, so interpolating the result into SQL is safe.
func enabledColumn(class models.EventClass) string {
	switch class {
	case models.EventClassUpload:
		return "upload_enabled"
	case models.EventClassLive:
		return "live_enabled"
	default:
		return "schedule_enabled"
	}
}

func destinationColumn(class models.EventClass) string {
	switch class {
	case models.EventClassUpload:
		return "upload_destination"
	case models.EventClassLive:
		return "live_destination"
	default:
		return "schedule_destination"
	}
}

func mentionColumn(class models.EventClass) string {
	switch class {
	case models.EventClassUpload:
		return "upload_mention"
	case models.EventClassLive:
		return "live_mention"
	default:
		return "schedule_mention"
	}
}

func cursorColumn(class models.EventClass) string {
	switch class {
	case models.EventClassUpload:
		return "last_upload"
	case models.EventClassLive:
		return "last_live"
	default:
		return "last_scheduled"
	}
}

func scanChannel(row pgx.Row) (*models.TrackedChannel, error) {
	var c models.TrackedChannel
	err := row.Scan(
		&c.ID, &c.GuildID, &c.ChannelID,
		&c.UploadEnabled, &c.LiveEnabled, &c.ScheduleEnabled,
		&c.UploadDestination, &c.LiveDestination, &c.ScheduleDestination,
		&c.UploadMention, &c.LiveMention, &c.ScheduleMention,
		&c.LastUpload, &c.LastLive, &c.LastScheduled,
		&c.UploadsPlaylistID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateGuild retrieves a guild row, creating an empty one on first
// access.
func (r *GuildRepository) GetOrCreateGuild(ctx context.Context, guildID string) (*models.Guild, error) {
	query := `
		INSERT INTO guilds (id)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = guilds.updated_at
		RETURNING id, current_channel_id, created_at, updated_at
	`

	var guild models.Guild
	err := r.db.QueryRow(ctx, query, guildID).Scan(
		&guild.ID,
		&guild.CurrentChannelID,
		&guild.CreatedAt,
		&guild.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild %s: %w", guildID, err)
	}

	channels, err := r.GetChannels(ctx, guildID)
	if err != nil {
		return nil, err
	}
	guild.Channels = channels

	return &guild, nil
}

// ListGuilds returns every guild with its tracked channels in insertion
// order. Used by the poll scheduler to enumerate one sweep.
func (r *GuildRepository) ListGuilds(ctx context.Context) ([]*models.Guild, error) {
	rows, err := r.db.Query(ctx, `SELECT id, current_channel_id, created_at, updated_at FROM guilds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	defer rows.Close()

	var guilds []*models.Guild
	byID := make(map[string]*models.Guild)
	for rows.Next() {
		var guild models.Guild
		if err := rows.Scan(&guild.ID, &guild.CurrentChannelID, &guild.CreatedAt, &guild.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guild: %w", err)
		}
		guilds = append(guilds, &guild)
		byID[guild.ID] = &guild
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}

	channelRows, err := r.db.Query(ctx, `SELECT`+channelColumns+` FROM tracked_channels ORDER BY guild_id, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked channels: %w", err)
	}
	defer channelRows.Close()

	for channelRows.Next() {
		channel, err := scanChannel(channelRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracked channel: %w", err)
		}
		if guild, ok := byID[channel.GuildID]; ok {
			guild.Channels = append(guild.Channels, channel)
		}
	}
	if err := channelRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tracked channels: %w", err)
	}

	return guilds, nil
}

// GetChannels returns the guild's tracked channels in insertion order.
func (r *GuildRepository) GetChannels(ctx context.Context, guildID string) ([]*models.TrackedChannel, error) {
	rows, err := r.db.Query(ctx, `SELECT`+channelColumns+` FROM tracked_channels WHERE guild_id = $1 ORDER BY id`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channels for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var channels []*models.TrackedChannel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracked channel: %w", err)
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get channels for guild %s: %w", guildID, err)
	}

	return channels, nil
}

// GetChannel retrieves one tracked channel, or nil if the guild does not
// track it.
func (r *GuildRepository) GetChannel(ctx context.Context, guildID, channelID string) (*models.TrackedChannel, error) {
	row := r.db.QueryRow(ctx, `SELECT`+channelColumns+` FROM tracked_channels WHERE guild_id = $1 AND channel_id = $2`, guildID, channelID)

	channel, err := scanChannel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s for guild %s: %w", channelID, guildID, err)
	}

	return channel, nil
}

// AddChannel appends a tracked channel to the guild, creating the guild row
// if needed. Returns ErrChannelExists when the channel is already tracked.
func (r *GuildRepository) AddChannel(ctx context.Context, channel *models.TrackedChannel) error {
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO guilds (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, channel.GuildID)
		if err != nil {
			return fmt.Errorf("failed to ensure guild %s: %w", channel.GuildID, err)
		}

		query := `
			INSERT INTO tracked_channels (
				guild_id, channel_id,
				upload_enabled, live_enabled, schedule_enabled,
				upload_destination, live_destination, schedule_destination,
				upload_mention, live_mention, schedule_mention
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRow(ctx, query,
			channel.GuildID, channel.ChannelID,
			channel.UploadEnabled, channel.LiveEnabled, channel.ScheduleEnabled,
			channel.UploadDestination, channel.LiveDestination, channel.ScheduleDestination,
			channel.UploadMention, channel.LiveMention, channel.ScheduleMention,
		).Scan(&channel.ID, &channel.CreatedAt, &channel.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrChannelExists
			}
			return fmt.Errorf("failed to add channel %s to guild %s: %w", channel.ChannelID, channel.GuildID, err)
		}

		return nil
	})
	return err
}

// RemoveChannel deletes a tracked channel. Returns whether a row was removed.
func (r *GuildRepository) RemoveChannel(ctx context.Context, guildID, channelID string) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tracked_channels WHERE guild_id = $1 AND channel_id = $2`, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to remove channel %s from guild %s: %w", channelID, guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

// ClearChannels deletes all of the guild's tracked channels and returns how
// many were removed.
func (r *GuildRepository) ClearChannels(ctx context.Context, guildID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tracked_channels WHERE guild_id = $1`, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear channels for guild %s: %w", guildID, err)
	}
	return result.RowsAffected(), nil
}

// SetEnabled updates one class's enable flag. Returns whether the channel
// exists.
func (r *GuildRepository) SetEnabled(ctx context.Context, guildID, channelID string, class models.EventClass, enabled bool) (bool, error) {
	query := fmt.Sprintf(`UPDATE tracked_channels SET %s = $1, updated_at = NOW() WHERE guild_id = $2 AND channel_id = $3`, enabledColumn(class))
	result, err := r.db.Exec(ctx, query, enabled, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to set %s enabled for channel %s: %w", class, channelID, err)
	}
	return result.RowsAffected() > 0, nil
}

// SetDestination updates one class's delivery channel; nil clears it.
func (r *GuildRepository) SetDestination(ctx context.Context, guildID, channelID string, class models.EventClass, destination *string) (bool, error) {
	query := fmt.Sprintf(`UPDATE tracked_channels SET %s = $1, updated_at = NOW() WHERE guild_id = $2 AND channel_id = $3`, destinationColumn(class))
	result, err := r.db.Exec(ctx, query, destination, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to set %s destination for channel %s: %w", class, channelID, err)
	}
	return result.RowsAffected() > 0, nil
}

// SetMention updates one class's mention target; nil clears it.
func (r *GuildRepository) SetMention(ctx context.Context, guildID, channelID string, class models.EventClass, mention *string) (bool, error) {
	query := fmt.Sprintf(`UPDATE tracked_channels SET %s = $1, updated_at = NOW() WHERE guild_id = $2 AND channel_id = $3`, mentionColumn(class))
	result, err := r.db.Exec(ctx, query, mention, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to set %s mention for channel %s: %w", class, channelID, err)
	}
	return result.RowsAffected() > 0, nil
}

// SetCursor updates one class's last-notified video ID; nil clears it.
func (r *GuildRepository) SetCursor(ctx context.Context, guildID, channelID string, class models.EventClass, videoID *string) (bool, error) {
	query := fmt.Sprintf(`UPDATE tracked_channels SET %s = $1, updated_at = NOW() WHERE guild_id = $2 AND channel_id = $3`, cursorColumn(class))
	result, err := r.db.Exec(ctx, query, videoID, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to set %s cursor for channel %s: %w", class, channelID, err)
	}
	return result.RowsAffected() > 0, nil
}

// CacheUploadsPlaylist records the resolved uploads playlist. An already
// cached value is never overwritten; the mapping is immutable for the
// lifetime of the channel.
func (r *GuildRepository) CacheUploadsPlaylist(ctx context.Context, guildID, channelID, playlistID string) (bool, error) {
	query := `
		UPDATE tracked_channels
		SET uploads_playlist_id = $1, updated_at = NOW()
		WHERE guild_id = $2 AND channel_id = $3 AND uploads_playlist_id IS NULL
	`
	result, err := r.db.Exec(ctx, query, playlistID, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to cache uploads playlist for channel %s: %w", channelID, err)
	}
	return result.RowsAffected() > 0, nil
}

// SetCurrentChannel updates the guild's current-channel pointer; nil clears
// it.
func (r *GuildRepository) SetCurrentChannel(ctx context.Context, guildID string, channelID *string) (bool, error) {
	result, err := r.db.Exec(ctx, `UPDATE guilds SET current_channel_id = $1, updated_at = NOW() WHERE id = $2`, channelID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to set current channel for guild %s: %w", guildID, err)
	}
	return result.RowsAffected() > 0, nil
}
