package testutil

import (
	"github.com/CommandLineFox/NotificationBot/models"
)

// CreateTestChannel creates a tracked channel with all classes enabled and
// no delivery configuration, matching the defaults of an "add channel"
// command.
func CreateTestChannel(guildID, channelID string) *models.TrackedChannel {
	return &models.TrackedChannel{
		GuildID:         guildID,
		ChannelID:       channelID,
		UploadEnabled:   true,
		LiveEnabled:     true,
		ScheduleEnabled: true,
	}
}

// CreateConfiguredTestChannel creates a tracked channel with destinations and
// mentions set for every class.
func CreateConfiguredTestChannel(guildID, channelID, destination, mention string) *models.TrackedChannel {
	channel := CreateTestChannel(guildID, channelID)
	channel.UploadDestination = &destination
	channel.LiveDestination = &destination
	channel.ScheduleDestination = &destination
	channel.UploadMention = &mention
	channel.LiveMention = &mention
	channel.ScheduleMention = &mention
	return channel
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}
