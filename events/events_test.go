package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CommandLineFox/NotificationBot/models"
)

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var received []models.Notification
	bus.Subscribe(EventTypeNotification, func(ctx context.Context, event Event) {
		if e, ok := event.(NotificationEvent); ok {
			received = append(received, e.Notification)
		}
	})

	notification := models.Notification{
		GuildID:     "g1",
		ChannelID:   "UC123",
		VideoID:     "V1",
		Class:       models.EventClassUpload,
		Destination: "d1",
		Mention:     "r1",
	}
	bus.Publish(ctx, NotificationEvent{Notification: notification})

	assert.Len(t, received, 1)
	assert.Equal(t, notification, received[0])
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	bus.Subscribe(EventTypeNotification, func(ctx context.Context, event Event) {
		panic("boom")
	})

	called := false
	bus.Subscribe(EventTypeNotification, func(ctx context.Context, event Event) {
		called = true
	})

	bus.Publish(ctx, NotificationEvent{})
	assert.True(t, called)
}
