package events

import (
	"sync"

	"github.com/gridplay/tictactoe-server/internal/entity"
)

// subscriber channels are buffered; a slow consumer drops updates instead of
// blocking the game manager
const subscriberBuffer = 8

// Broadcaster fans out game state snapshots to watchers subscribed by game ID.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan *entity.Game]struct{}
}

func New() *Broadcaster {
	return &Broadcaster{
		subs: make(map[string]map[chan *entity.Game]struct{}),
	}
}

// Subscribe - registers a watcher for the given game and returns the channel
// state snapshots arrive on. The caller must Unsubscribe when done.
func (that *Broadcaster) Subscribe(gameID string) chan *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	updates := make(chan *entity.Game, subscriberBuffer)

	if that.subs[gameID] == nil {
		that.subs[gameID] = make(map[chan *entity.Game]struct{})
	}
	that.subs[gameID][updates] = struct{}{}

	return updates
}

// Unsubscribe - removes the watcher and closes its channel.
func (that *Broadcaster) Unsubscribe(gameID string, updates chan *entity.Game) {
	that.mu.Lock()
	defer that.mu.Unlock()

	watchers, ok := that.subs[gameID]
	if !ok {
		return
	}

	if _, ok = watchers[updates]; !ok {
		return
	}

	delete(watchers, updates)
	if len(watchers) == 0 {
		delete(that.subs, gameID)
	}

	close(updates)
}

// Publish - delivers the snapshot to every watcher of the game. Sends never
// block; a watcher with a full buffer misses this update.
func (that *Broadcaster) Publish(game *entity.Game) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for updates := range that.subs[game.ID] {
		select {
		case updates <- game:
		default:
		}
	}
}
