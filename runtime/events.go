package runtime

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/dagflow/types"
)

/**
 * eventEmitter fans lifecycle events out to subscribers, synchronously
 * and in subscription order. A panicking subscriber is logged and the
 * remaining subscribers still run.
 */
type eventEmitter struct {
	mu       sync.RWMutex
	handlers []types.EventHandler
}

func newEventEmitter() *eventEmitter {
	return &eventEmitter{}
}

func (e *eventEmitter) subscribe(handler types.EventHandler) {
	if handler == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

func (e *eventEmitter) emit(event types.Event) {
	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, handler := range handlers {
		e.safeEmit(handler, event)
	}
}

func (e *eventEmitter) safeEmit(handler types.EventHandler, event types.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event subscriber panic on %s: %v", event.Name, r)
		}
	}()
	handler(event)
}
