package models

import (
	"time"
)

// Guild is the per-guild notification configuration: the ordered list of
// tracked channels (insertion order) and the pointer to the channel that
// single-target commands currently apply to.
type Guild struct {
	ID               string  `db:"id"`
	CurrentChannelID *string `db:"current_channel_id"`

	// Channels is ordered by insertion; the last element is the most
	// recently added channel.
	Channels []*TrackedChannel `db:"-"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Channel returns the tracked channel with the given YouTube channel ID, or
// nil if the guild does not track it.
func (g *Guild) Channel(channelID string) *TrackedChannel {
	for _, c := range g.Channels {
		if c.ChannelID == channelID {
			return c
		}
	}
	return nil
}
