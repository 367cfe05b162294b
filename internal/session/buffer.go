package session

import (
	"strings"
	"sync"
)

// DefaultScreenBufferSize is the number of console chunks kept for replay.
const DefaultScreenBufferSize = 1000

// ScreenBuffer is the bounded replay log of console output. When full, the oldest chunks are
// dropped first.
type ScreenBuffer struct {
	mu     sync.Mutex
	size   int
	chunks []string
}

// NewScreenBuffer returns a ScreenBuffer keeping the most recent size chunks.
func NewScreenBuffer(size int) *ScreenBuffer {
	if size <= 0 {
		size = DefaultScreenBufferSize
	}
	return &ScreenBuffer{size: size}
}

// Append records chunk. Empty chunks are ignored.
func (b *ScreenBuffer) Append(chunk string) {
	if chunk == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.chunks = append(b.chunks, chunk)
	if over := len(b.chunks) - b.size; over > 0 {
		clear(b.chunks[:over])
		b.chunks = b.chunks[over:]
	}
}

// Content returns every chunk concatenated in order.
func (b *ScreenBuffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.chunks, "")
}

// Chunks returns a copy of the chunks in order.
func (b *ScreenBuffer) Chunks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.chunks...)
}

// Len returns the number of chunks held.
func (b *ScreenBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.chunks)
}
