package models

// Notification is a novelty signal handed to the delivery layer: exactly one
// outbound message per notification.
type Notification struct {
	GuildID     string
	ChannelID   string // YouTube channel the event belongs to
	VideoID     string
	Class       EventClass
	Destination string // Discord channel to post in
	Mention     string // role ID, or the guild ID for @everyone
}

// VideoURL returns the watch URL for the notification's video.
func (n Notification) VideoURL() string {
	return "https://www.youtube.com/watch?v=" + n.VideoID
}

// Response is the outcome of a command-facing operation. Success reports
// whether state changed; Message is human-readable and safe to show to the
// invoking user. Benign no-ops ("already enabled") are unsuccessful but not
// errors.
type Response struct {
	Success bool
	Message string
}
