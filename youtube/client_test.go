package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	yt "google.golang.org/api/youtube/v3"

	"github.com/CommandLineFox/NotificationBot/models"
)

func TestStatusFromDetails(t *testing.T) {
	tests := []struct {
		name    string
		details *yt.VideoLiveStreamingDetails
		want    models.VideoStatus
	}{
		{
			name:    "plain upload has no details",
			details: nil,
			want:    models.VideoStatusNone,
		},
		{
			name: "started and not ended is live",
			details: &yt.VideoLiveStreamingDetails{
				ActualStartTime: "2025-01-01T12:00:00Z",
			},
			want: models.VideoStatusLive,
		},
		{
			name: "started and ended is none",
			details: &yt.VideoLiveStreamingDetails{
				ActualStartTime: "2025-01-01T12:00:00Z",
				ActualEndTime:   "2025-01-01T14:00:00Z",
			},
			want: models.VideoStatusNone,
		},
		{
			name: "scheduled and not started is upcoming",
			details: &yt.VideoLiveStreamingDetails{
				ScheduledStartTime: "2025-01-02T12:00:00Z",
			},
			want: models.VideoStatusUpcoming,
		},
		{
			name: "scheduled stream that started is live",
			details: &yt.VideoLiveStreamingDetails{
				ScheduledStartTime: "2025-01-02T12:00:00Z",
				ActualStartTime:    "2025-01-02T12:03:00Z",
			},
			want: models.VideoStatusLive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromDetails(tt.details))
		})
	}
}
