// Package poller drives the recurring sweep over all tracked channels. Each
// cycle enumerates guilds, runs the per-class novelty checks, and publishes a
// notification event for every fresh video. The next cycle is scheduled only
// after the current one finishes, with a delay that stretches linearly with
// the number of guilds.
package poller

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/CommandLineFox/NotificationBot/events"
	"github.com/CommandLineFox/NotificationBot/metrics"
	"github.com/CommandLineFox/NotificationBot/models"
)

// GuildLister enumerates the guilds to sweep.
type GuildLister interface {
	ListGuilds(ctx context.Context) ([]*models.Guild, error)
}

// Checker decides novelty for one (guild, channel, class) and advances the
// matching cursor. A non-empty video ID means a notification is due.
type Checker interface {
	Check(ctx context.Context, guildID, channelID string, class models.EventClass) (string, error)
}

// Config holds the poll loop timings.
type Config struct {
	// BaseInterval is the per-guild delay unit; the actual delay is
	// BaseInterval times the guild count (minimum one).
	BaseInterval time.Duration

	// RetryInterval is the fixed delay after a failed guild enumeration.
	RetryInterval time.Duration
}

// Poller runs the sweep loop.
type Poller struct {
	config   Config
	repo     GuildLister
	checker  Checker
	eventBus *events.Bus
	inflight *Inflight
}

// New creates a poller. Sweeping starts when Run is called.
func New(config Config, repo GuildLister, checker Checker, eventBus *events.Bus) *Poller {
	metrics.Init()
	return &Poller{
		config:   config,
		repo:     repo,
		checker:  checker,
		eventBus: eventBus,
		inflight: NewInflight(),
	}
}

// Run sweeps immediately, then keeps sweeping until ctx is cancelled. The
// delay before each sweep is recomputed from the previous sweep's outcome.
func (p *Poller) Run(ctx context.Context) error {
	log.WithFields(log.Fields{
		"baseInterval":  p.config.BaseInterval,
		"retryInterval": p.config.RetryInterval,
	}).Info("Starting notification poller")

	for {
		delay := p.sweepOnce(ctx)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Notification poller stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// sweepOnce checks every tracked channel of every guild and returns the delay
// until the next sweep.
func (p *Poller) sweepOnce(ctx context.Context) time.Duration {
	metrics.SweepsStarted.Inc()
	start := time.Now()

	guilds, err := p.repo.ListGuilds(ctx)
	if err != nil {
		metrics.SweepsFailed.Inc()
		log.WithError(err).Warn("Failed to enumerate guilds, retrying next cycle")
		return p.config.RetryInterval
	}

	metrics.GuildCount.Set(float64(len(guilds)))

	for _, guild := range guilds {
		for _, channel := range guild.Channels {
			p.checkChannel(ctx, channel)
		}
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())

	scale := len(guilds)
	if scale < 1 {
		scale = 1
	}
	return p.config.BaseInterval * time.Duration(scale)
}

// checkChannel runs all three class checks for one tracked channel under a
// single in-flight reservation. If the previous sweep's check for this pair
// is still running, the whole channel is skipped this cycle.
func (p *Poller) checkChannel(ctx context.Context, channel *models.TrackedChannel) {
	if !p.inflight.TryEnter(channel.GuildID, channel.ChannelID) {
		log.WithFields(log.Fields{
			"guildID":   channel.GuildID,
			"channelID": channel.ChannelID,
		}).Debug("Check still in flight, skipping")
		return
	}
	defer p.inflight.Leave(channel.GuildID, channel.ChannelID)

	metrics.ChannelsChecked.Inc()

	for _, class := range models.AllEventClasses {
		if !channel.Enabled(class) {
			continue
		}

		videoID, err := p.checker.Check(ctx, channel.GuildID, channel.ChannelID, class)
		if err != nil {
			metrics.CheckErrors.Inc()
			log.WithFields(log.Fields{
				"guildID":   channel.GuildID,
				"channelID": channel.ChannelID,
				"class":     class,
			}).WithError(err).Warn("Channel check failed")
			continue
		}
		if videoID == "" {
			continue
		}

		destination := channel.Destination(class)
		mention := channel.Mention(class)
		if destination == nil || mention == nil {
			metrics.NotificationsDropped.Inc()
			log.WithFields(log.Fields{
				"guildID":   channel.GuildID,
				"channelID": channel.ChannelID,
				"class":     class,
				"videoID":   videoID,
			}).Warn("Dropping notification, destination or mention not configured")
			continue
		}

		p.eventBus.Publish(ctx, events.NotificationEvent{
			Notification: models.Notification{
				GuildID:     channel.GuildID,
				ChannelID:   channel.ChannelID,
				VideoID:     videoID,
				Class:       class,
				Destination: *destination,
				Mention:     *mention,
			},
		})
		metrics.NotificationsEmitted.WithLabelValues(string(class)).Inc()

		log.WithFields(log.Fields{
			"guildID":   channel.GuildID,
			"channelID": channel.ChannelID,
			"class":     class,
			"videoID":   videoID,
		}).Info("Notification published")
	}
}
