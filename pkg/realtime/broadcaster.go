package realtime

import "sync"

// DefaultQueueSize is the outbound buffer of each subscriber.
const DefaultQueueSize = 32

// Broadcaster fans messages out to per-connection outbound queues.
// Delivery never blocks: a full queue drops the message.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]chan []byte
	size int
}

// NewBroadcaster creates an empty broadcaster with the given queue size.
func NewBroadcaster(size int) *Broadcaster {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Broadcaster{
		subs: make(map[string]chan []byte),
		size: size,
	}
}

// Subscribe registers a connection and returns its queue.
// An existing queue for the same id is closed and replaced.
func (b *Broadcaster) Subscribe(id string) <-chan []byte {
	ch := make(chan []byte, b.size)
	b.mu.Lock()
	if old, ok := b.subs[id]; ok {
		close(old)
	}
	b.subs[id] = ch
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a connection and closes its queue.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Send queues msg for one connection. It reports whether the message was queued.
func (b *Broadcaster) Send(id string, msg []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		// Subscriber is lagging; the next snapshot catches it up.
		return false
	}
}

// Publish queues msg for every listed connection and returns how many accepted it.
func (b *Broadcaster) Publish(ids []string, msg []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, id := range ids {
		ch, ok := b.subs[id]
		if !ok {
			continue
		}
		select {
		case ch <- msg:
			n++
		default:
		}
	}
	return n
}

// Len returns the number of subscribed connections.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
