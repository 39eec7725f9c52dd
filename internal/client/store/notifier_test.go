package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierDeliversToSubscribers(t *testing.T) {
	n := NewNotifier()
	apps := n.Subscribe(TopicApplications)
	outbox := n.Subscribe(TopicOutbox)

	n.Notify(TopicApplications)

	select {
	case <-apps:
	default:
		t.Fatal("expected a signal on the applications topic")
	}
	assert.Empty(t, outbox, "other topics must stay quiet")
}

func TestNotifierCoalescesBursts(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(TopicOutbox)

	// A burst must never block the publisher.
	for i := 0; i < 10; i++ {
		n.Notify(TopicOutbox)
	}

	<-ch
	select {
	case <-ch:
		t.Fatal("burst should coalesce into a single pending signal")
	default:
	}
}
