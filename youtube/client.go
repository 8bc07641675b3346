// Package youtube wraps the YouTube Data API v3 for the read-only lookups
// the notifier needs: uploads-playlist resolution, the newest playlist item,
// and live-broadcast classification. Each lookup is a single keyed request;
// the caller treats failures as "no result this cycle".
package youtube

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/CommandLineFox/NotificationBot/models"
)

// Client is an API-key authenticated YouTube Data API client.
type Client struct {
	svc     *yt.Service
	timeout time.Duration
}

// NewClient creates a new YouTube client. The timeout bounds each individual
// API call; zero disables the bound.
func NewClient(ctx context.Context, apiKey string, timeout time.Duration) (*Client, error) {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{svc: svc, timeout: timeout}, nil
}

// UploadsPlaylistID resolves a channel's uploads playlist via
// channels.list?part=contentDetails. Returns "" when the channel is unknown.
func (c *Client) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.svc.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("channels.list for %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil {
		return "", nil
	}
	return details.RelatedPlaylists.Uploads, nil
}

// LatestVideoID returns the newest item of a playlist in the API's own
// most-recent-first ordering. Returns "" when the playlist is empty.
func (c *Client) LatestVideoID(ctx context.Context, playlistID string) (string, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.svc.PlaylistItems.List([]string{"contentDetails"}).PlaylistId(playlistID).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("playlistItems.list for %s: %w", playlistID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return "", nil
	}
	return resp.Items[0].ContentDetails.VideoId, nil
}

// VideoStatus classifies a video via videos.list?part=liveStreamingDetails.
func (c *Client) VideoStatus(ctx context.Context, videoID string) (models.VideoStatus, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.svc.Videos.List([]string{"liveStreamingDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return models.VideoStatusNone, fmt.Errorf("videos.list for %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return models.VideoStatusNone, nil
	}
	return statusFromDetails(resp.Items[0].LiveStreamingDetails), nil
}

// statusFromDetails maps liveStreamingDetails timestamps to a lifecycle
// phase: live iff started and not ended, upcoming iff scheduled and not
// started, none otherwise (plain uploads and ended broadcasts).
func statusFromDetails(details *yt.VideoLiveStreamingDetails) models.VideoStatus {
	if details == nil {
		return models.VideoStatusNone
	}
	if details.ActualStartTime != "" && details.ActualEndTime == "" {
		return models.VideoStatusLive
	}
	if details.ScheduledStartTime != "" && details.ActualStartTime == "" {
		return models.VideoStatusUpcoming
	}
	return models.VideoStatusNone
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
