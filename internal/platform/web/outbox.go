package web

import "sync"

// outbox buffers messages for one connection's writer goroutine. Send never
// blocks the session loop: when the buffer is full the oldest message is
// dropped, since every message carries a full frame.
type outbox struct {
	msgs     chan ServerMessage
	done     chan struct{}
	doneOnce sync.Once
}

func newOutbox(size int) *outbox {
	if size < 1 {
		size = 64 // Default buffer size
	}
	return &outbox{
		msgs: make(chan ServerMessage, size),
		done: make(chan struct{}),
	}
}

// Send queues msg, dropping the oldest queued message if needed.
func (o *outbox) Send(msg ServerMessage) {
	select {
	case <-o.done:
		return
	default:
	}

	select {
	case o.msgs <- msg:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-o.msgs:
		default:
		}
		select {
		case o.msgs <- msg:
		default:
		}
	}
}

// Messages returns the channel the writer reads from.
func (o *outbox) Messages() <-chan ServerMessage {
	return o.msgs
}

// Done returns a channel closed by Close.
func (o *outbox) Done() <-chan struct{} {
	return o.done
}

// Close stops accepting messages. Safe to call multiple times.
func (o *outbox) Close() {
	o.doneOnce.Do(func() {
		close(o.done)
	})
}
