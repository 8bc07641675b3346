package models

import (
	"time"
)

// EventClass identifies one of the three independently tracked notification
// categories for a channel.
type EventClass string

const (
	EventClassUpload    EventClass = "upload"
	EventClassLive      EventClass = "live"
	EventClassScheduled EventClass = "scheduled"
)

// AllEventClasses lists the classes in the order they are checked each sweep.
var AllEventClasses = []EventClass{EventClassUpload, EventClassLive, EventClassScheduled}

// VideoStatus is the lifecycle phase of a video as reported by the platform.
type VideoStatus string

const (
	// VideoStatusNone is an ordinary on-demand video or an ended broadcast.
	VideoStatusNone VideoStatus = "none"
	// VideoStatusLive is a broadcast that has started and not yet ended.
	VideoStatusLive VideoStatus = "live"
	// VideoStatusUpcoming is a broadcast that is scheduled but not started.
	VideoStatusUpcoming VideoStatus = "upcoming"
)

// TrackedChannel is one YouTube channel a guild follows, with per-class
// enable flags, delivery settings, and last-notified cursors.
type TrackedChannel struct {
	ID        int64  `db:"id"`
	GuildID   string `db:"guild_id"`
	ChannelID string `db:"channel_id"`

	UploadEnabled   bool `db:"upload_enabled"`
	LiveEnabled     bool `db:"live_enabled"`
	ScheduleEnabled bool `db:"schedule_enabled"`

	UploadDestination   *string `db:"upload_destination"`
	LiveDestination     *string `db:"live_destination"`
	ScheduleDestination *string `db:"schedule_destination"`

	UploadMention   *string `db:"upload_mention"`
	LiveMention     *string `db:"live_mention"`
	ScheduleMention *string `db:"schedule_mention"`

	LastUpload    *string `db:"last_upload"`
	LastLive      *string `db:"last_live"`
	LastScheduled *string `db:"last_scheduled"`

	// UploadsPlaylistID caches the resolved uploads playlist so polls do not
	// re-resolve it. Once set it is never overwritten.
	UploadsPlaylistID *string `db:"uploads_playlist_id"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Enabled reports whether alerts for the given event class are on.
func (c *TrackedChannel) Enabled(class EventClass) bool {
	switch class {
	case EventClassUpload:
		return c.UploadEnabled
	case EventClassLive:
		return c.LiveEnabled
	case EventClassScheduled:
		return c.ScheduleEnabled
	}
	return false
}

// Destination returns the delivery channel configured for the given class.
func (c *TrackedChannel) Destination(class EventClass) *string {
	switch class {
	case EventClassUpload:
		return c.UploadDestination
	case EventClassLive:
		return c.LiveDestination
	case EventClassScheduled:
		return c.ScheduleDestination
	}
	return nil
}

// Mention returns the mention target configured for the given class.
func (c *TrackedChannel) Mention(class EventClass) *string {
	switch class {
	case EventClassUpload:
		return c.UploadMention
	case EventClassLive:
		return c.LiveMention
	case EventClassScheduled:
		return c.ScheduleMention
	}
	return nil
}

// Cursor returns the last-notified video ID for the given class.
func (c *TrackedChannel) Cursor(class EventClass) *string {
	switch class {
	case EventClassUpload:
		return c.LastUpload
	case EventClassLive:
		return c.LastLive
	case EventClassScheduled:
		return c.LastScheduled
	}
	return nil
}

// SetCursor sets or clears the last-notified video ID for the given class.
func (c *TrackedChannel) SetCursor(class EventClass, videoID *string) {
	switch class {
	case EventClassUpload:
		c.LastUpload = videoID
	case EventClassLive:
		c.LastLive = videoID
	case EventClassScheduled:
		c.LastScheduled = videoID
	}
}

// CursorMatches reports whether the class cursor currently holds videoID.
func (c *TrackedChannel) CursorMatches(class EventClass, videoID string) bool {
	cursor := c.Cursor(class)
	return cursor != nil && *cursor == videoID
}
