package store

import "sync"

// Topics published by the services when local collections change.
const (
	TopicApplications = "applications"
	TopicDocuments    = "documents"
	TopicInterviews   = "interviews"
	TopicOutbox       = "outbox"
	TopicCatalog      = "catalog"
)

// Notifier is a small in-process broadcast hub. Subscribers get a buffered
// signal channel per topic; Notify never blocks, coalescing bursts into a
// single pending signal.
type Notifier struct {
	mu   sync.Mutex
	subs map[string][]chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string][]chan struct{})}
}

func (n *Notifier) Subscribe(topic string) <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[topic] = append(n.subs[topic], ch)
	n.mu.Unlock()
	return ch
}

func (n *Notifier) Notify(topic string) {
	n.mu.Lock()
	subs := n.subs[topic]
	n.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
