package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload pushed to live subscribers of a game. Clients treat
// every event as an invalidation hint and re-read the affected resource.
type Event struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId"`
	RoundID  string `json:"roundId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

const (
	eventGameUpdated   = "game_updated"
	eventRoundsChanged = "rounds_changed"
	eventScoreSet      = "score_set"
	eventGameClosed    = "game_closed"
	eventGameDeleted   = "game_deleted"
)

// Broker is an in-process pub/sub for live game events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(gameID string, event Event) {
	event.GameID = gameID
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
