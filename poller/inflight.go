package poller

import "sync"

// Inflight tracks (guild, channel) pairs with a check in progress so that
// overlapping sweeps never run two checks for the same pair concurrently.
type Inflight struct {
	mu     sync.Mutex
	guilds map[string]map[string]struct{}
}

// NewInflight creates an empty in-flight guard.
func NewInflight() *Inflight {
	return &Inflight{
		guilds: make(map[string]map[string]struct{}),
	}
}

// TryEnter marks the pair as in progress. It returns false when a check for
// the same pair is already running.
func (f *Inflight) TryEnter(guildID, channelID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	channels, ok := f.guilds[guildID]
	if !ok {
		channels = make(map[string]struct{})
		f.guilds[guildID] = channels
	}
	if _, busy := channels[channelID]; busy {
		return false
	}
	channels[channelID] = struct{}{}
	return true
}

// Leave releases the pair. The guild's entry is removed once its last channel
// leaves so the map does not grow with departed guilds.
func (f *Inflight) Leave(guildID, channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channels, ok := f.guilds[guildID]
	if !ok {
		return
	}
	delete(channels, channelID)
	if len(channels) == 0 {
		delete(f.guilds, guildID)
	}
}
