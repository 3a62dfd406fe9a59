package audio

import "sync"

// DefaultFrameCapacity bounds how many raw frames queue up while the
// recognition backend is still connecting.
const DefaultFrameCapacity = 10

// FrameBuffer is a bounded queue of raw audio frames awaiting a ready
// transcription channel. Overflow policy: drop-newest — once capacity is
// reached arriving frames are discarded, keeping the earliest audio (the
// utterance onset) and bounding flush latency. Push never blocks.
type FrameBuffer struct {
	mu       sync.Mutex
	frames   [][]byte
	capacity int
	dropped  int
}

// NewFrameBuffer creates a buffer holding at most capacity frames. A
// non-positive capacity falls back to DefaultFrameCapacity.
func NewFrameBuffer(capacity int) *FrameBuffer {
	if capacity <= 0 {
		capacity = DefaultFrameCapacity
	}
	return &FrameBuffer{
		frames:   make([][]byte, 0, capacity),
		capacity: capacity,
	}
}

// Push queues a copy of frame. It returns false when the frame was dropped
// because the buffer is full.
func (b *FrameBuffer) Push(frame []byte) bool {
	if len(frame) == 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.frames) >= b.capacity {
		b.dropped++
		return false
	}

	cp := make([]byte, len(frame))
	copy(cp, frame)
	b.frames = append(b.frames, cp)
	return true
}

// Drain returns all queued frames in arrival order and empties the buffer.
func (b *FrameBuffer) Drain() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	frames := b.frames
	b.frames = make([][]byte, 0, b.capacity)
	return frames
}

// Len reports the number of queued frames.
func (b *FrameBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// Dropped reports how many frames were discarded due to overflow.
func (b *FrameBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
