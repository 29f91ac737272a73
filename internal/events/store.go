package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// MemoryStore keeps events in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// InsertEvent appends ev.
func (s *MemoryStore) InsertEvent(_ context.Context, ev Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return ev, nil
}

// List returns recorded events for topic in emission order. An empty topic returns all.
func (s *MemoryStore) List(topic string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if topic == "" || ev.Topic == topic {
			out = append(out, ev)
		}
	}
	return out
}

// LogNotifier writes every event to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify logs ev at debug level.
func (n LogNotifier) Notify(_ context.Context, ev Event) error {
	n.Logger.Debug().
		Str("event_id", ev.ID.String()).
		Str("topic", ev.Topic).
		Str("aggregate_id", ev.AggregateID).
		RawJSON("payload", ev.Payload).
		Msg("domain_event")
	return nil
}
