package event

import (
	"sync"

	"github.com/gymdesk/backend/internal/domain/shared"
)

// anyType is the subscription key of handlers that receive every event
const anyType = "*"

// subscriptions maps event types to their handlers in subscription order
type subscriptions struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byType: make(map[string][]shared.EventHandler)}
}

// add subscribes handler to eventTypes, or to every type when none are given.
// Subscribing the same handler twice to a type is a no-op.
func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyType}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, eventType := range eventTypes {
		if containsHandler(s.byType[eventType], handler) {
			continue
		}
		s.byType[eventType] = append(s.byType[eventType], handler)
	}
}

// forType returns the handlers for eventType followed by the catch-all handlers
func (s *subscriptions) forType(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	specific, catchAll := s.byType[eventType], s.byType[anyType]
	out := make([]shared.EventHandler, 0, len(specific)+len(catchAll))
	out = append(out, specific...)
	for _, h := range catchAll {
		if !containsHandler(out, h) {
			out = append(out, h)
		}
	}
	return out
}

func containsHandler(handlers []shared.EventHandler, target shared.EventHandler) bool {
	for _, h := range handlers {
		if h == target {
			return true
		}
	}
	return false
}
