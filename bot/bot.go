package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"github.com/CommandLineFox/NotificationBot/events"
)

// Config holds bot configuration
type Config struct {
	Token string
}

// Bot owns the Discord session and delivers notification events published by
// the poll loop.
type Bot struct {
	config   Config
	session  *discordgo.Session
	eventBus *events.Bus
}

func New(config Config, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:   config,
		session:  dg,
		eventBus: eventBus,
	}

	dg.AddHandler(bot.handleReady)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Subscribe to novelty events from the poll loop
	eventBus.Subscribe(events.EventTypeNotification, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.NotificationEvent); ok {
			if err := bot.deliver(e.Notification); err != nil {
				log.WithFields(log.Fields{
					"guildID":     e.Notification.GuildID,
					"destination": e.Notification.Destination,
					"videoID":     e.Notification.VideoID,
				}).WithError(err).Error("Failed to deliver notification")
			}
		}
	})

	return bot, nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Infof("Logged in as %s#%s", r.User.Username, r.User.Discriminator)
}

func (b *Bot) Close() error {
	return b.session.Close()
}
