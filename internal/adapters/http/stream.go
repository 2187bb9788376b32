package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// AllContainers is the topic receiving events from every container.
const AllContainers = "*"

// StreamManager fans navigation events out to SSE subscribers, keyed by container id.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for topic. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(topic string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 32)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan<- string]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[topic]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, topic)
				}
			}
			close(ch)
		})
	}
}

// Broadcast sends msg to the subscribers of topic and of AllContainers.
// Slow subscribers lose messages rather than block the frame loop.
func (sm *StreamManager) Broadcast(topic, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, t := range []string{topic, AllContainers} {
		for ch := range sm.subscribers[t] {
			select {
			case ch <- msg:
			default:
				sm.logger.Warn("SSE: client buffer full, dropping event", "topic", t)
			}
		}
		if topic == AllContainers {
			break
		}
	}
}

type streamEvent struct {
	Kind  string `json:"kind"`
	Event any    `json:"event"`
}

func (sm *StreamManager) publish(container, kind string, ev any) {
	data, err := json.Marshal(streamEvent{Kind: kind, Event: ev})
	if err != nil {
		sm.logger.Error("SSE: encode event failed", "err", err)
		return
	}
	sm.Broadcast(container, string(data))
}

// Hooks returns lifecycle hooks publishing every navigation event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLifecycle: func(_ context.Context, e *domain.LifecycleEvent) {
			sm.publish(e.ContainerID, "lifecycle", e)
		},
		OnTransitionStart: func(_ context.Context, e *domain.TransitionEvent) {
			sm.publish(e.ContainerID, "transition_start", e)
		},
		OnTransitionFinish: func(_ context.Context, e *domain.TransitionEvent) {
			sm.publish(e.ContainerID, "transition_finish", e)
		},
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) {
			sm.publish(e.ContainerID, "reconcile", e)
		},
	}
}
