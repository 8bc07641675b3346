package bot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"github.com/CommandLineFox/NotificationBot/models"
)

// deliver posts one notification to its configured destination. Messages to
// announcement channels are crossposted so follower channels receive them.
func (b *Bot) deliver(notification models.Notification) error {
	message, err := b.session.ChannelMessageSend(notification.Destination, messageText(notification))
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", notification.Destination, err)
	}

	channel, err := b.session.Channel(notification.Destination)
	if err != nil {
		return fmt.Errorf("failed to look up channel %s: %w", notification.Destination, err)
	}
	if channel.Type == discordgo.ChannelTypeGuildNews {
		if _, err := b.session.ChannelMessageCrosspost(notification.Destination, message.ID); err != nil {
			return fmt.Errorf("failed to crosspost message %s: %w", message.ID, err)
		}
	}

	log.WithFields(log.Fields{
		"guildID":     notification.GuildID,
		"destination": notification.Destination,
		"class":       notification.Class,
		"videoID":     notification.VideoID,
	}).Info("Notification delivered")
	return nil
}

// messageText builds the outbound message: mention, per-class phrase, and the
// watch URL.
func messageText(notification models.Notification) string {
	var phrase string
	switch notification.Class {
	case models.EventClassUpload:
		phrase = "new video available!"
	case models.EventClassLive:
		phrase = "is now live!"
	case models.EventClassScheduled:
		phrase = "upcoming stream!"
	}
	return fmt.Sprintf("%s %s\n%s", formatMention(notification), phrase, notification.VideoURL())
}

// formatMention renders the configured mention target. A mention equal to
// the guild ID means @everyone; anything else is treated as a role ID.
func formatMention(notification models.Notification) string {
	if notification.Mention == notification.GuildID {
		return "@everyone"
	}
	return fmt.Sprintf("<@&%s>", notification.Mention)
}
