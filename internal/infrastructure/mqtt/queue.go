package mqtt

import "sync"

// inboundQueue buffers raw message payloads between paho's network
// goroutine (producer) and the peripheral's polling loop (consumer).
//
// It is the only shared-mutable resource between the two concurrency
// domains of a client. enqueue never blocks, because blocking inside
// paho's delivery callback would stall all broker I/O for the client.
// Ordering is strict FIFO: payloads come out in exactly the order the
// broker delivered them, with no deduplication or secondary filtering.
//
// The queue is unbounded by design; if the consumer stalls it grows
// without limit. That mirrors the delivery contract (never drop a
// message this side of the broker) and is an accepted risk.
type inboundQueue struct {
	mu    sync.Mutex
	items [][]byte
}

// enqueue appends a payload. Safe for concurrent use; never blocks on
// the consumer.
func (q *inboundQueue) enqueue(payload []byte) {
	q.mu.Lock()
	q.items = append(q.items, payload)
	q.mu.Unlock()
}

// tryDequeue removes and returns the oldest payload. The second return
// is false when the queue is empty, which is a normal, frequent outcome
// under polling rather than an error.
func (q *inboundQueue) tryDequeue() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	payload := q.items[0]
	q.items[0] = nil // release the reference while the tail survives
	q.items = q.items[1:]
	return payload, true
}

// len returns the number of buffered payloads.
func (q *inboundQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
