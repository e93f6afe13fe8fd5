package terminal

import (
	"sync"
	"time"
)

// Buffer is a thread-safe circular buffer for terminal output. When full,
// the oldest bytes are overwritten.
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	mu   sync.RWMutex
}

// NewBuffer creates a new circular buffer
func NewBuffer(size int) *Buffer {
	if size < 2 {
		size = 2
	}
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the buffer
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size

		// If buffer is full, move head forward
		if b.tail == b.head {
			b.head = (b.head + 1) % b.size
		}
	}

	return len(p), nil
}

// ReadAll drains all unread data from the buffer
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head == b.tail {
		return []byte{}
	}

	var result []byte
	if b.tail > b.head {
		result = make([]byte, b.tail-b.head)
		copy(result, b.data[b.head:b.tail])
	} else {
		// Buffer wrapped around
		firstPart := b.data[b.head:]
		secondPart := b.data[:b.tail]
		result = make([]byte, len(firstPart)+len(secondPart))
		copy(result, firstPart)
		copy(result[len(firstPart):], secondPart)
	}

	b.head = b.tail

	return result
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID            string    `json:"id"`
	Path          string    `json:"path"`
	LiveDirectory string    `json:"live_directory"`
	Shell         string    `json:"shell"`
	State         string    `json:"state"`
	Cols          int       `json:"cols"`
	Rows          int       `json:"rows"`
	StartedAt     time.Time `json:"started_at"`
	Restarts      int       `json:"restarts"`
	ExitCode      int       `json:"exit_code"`
}
