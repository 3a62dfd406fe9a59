package audio

import (
	"bytes"
	"fmt"
	"testing"
)

func TestFrameBuffer_PushAndDrainPreserveOrder(t *testing.T) {
	buf := NewFrameBuffer(10)

	var want []byte
	for i := 0; i < 5; i++ {
		frame := []byte(fmt.Sprintf("frame-%d", i))
		want = append(want, frame...)
		if !buf.Push(frame) {
			t.Fatalf("Push(%d) dropped below capacity", i)
		}
	}

	if got := buf.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}

	var got []byte
	for _, frame := range buf.Drain() {
		got = append(got, frame...)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("drained bytes = %q, want %q", got, want)
	}

	if buf.Len() != 0 {
		t.Errorf("Len() after Drain() = %d, want 0", buf.Len())
	}
}

func TestFrameBuffer_DropNewestOnOverflow(t *testing.T) {
	buf := NewFrameBuffer(10)

	// 40 chunks arrive while the backend is not ready; exactly the first
	// 10 must be retained.
	for i := 0; i < 40; i++ {
		buf.Push([]byte(fmt.Sprintf("chunk-%02d", i)))
	}

	if got := buf.Len(); got != 10 {
		t.Fatalf("Len() = %d, want 10", got)
	}
	if got := buf.Dropped(); got != 30 {
		t.Errorf("Dropped() = %d, want 30", got)
	}

	frames := buf.Drain()
	for i, frame := range frames {
		want := fmt.Sprintf("chunk-%02d", i)
		if string(frame) != want {
			t.Errorf("frame[%d] = %q, want %q", i, frame, want)
		}
	}
}

func TestFrameBuffer_PushCopiesFrame(t *testing.T) {
	buf := NewFrameBuffer(4)

	frame := []byte("original")
	buf.Push(frame)
	copy(frame, "mutated!")

	got := buf.Drain()
	if string(got[0]) != "original" {
		t.Errorf("buffered frame = %q, want %q", got[0], "original")
	}
}

func TestFrameBuffer_EmptyFrameIgnored(t *testing.T) {
	buf := NewFrameBuffer(2)
	if !buf.Push(nil) {
		t.Error("Push(nil) reported a drop")
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
}

func TestFrameBuffer_DefaultCapacity(t *testing.T) {
	buf := NewFrameBuffer(0)
	for i := 0; i < DefaultFrameCapacity+3; i++ {
		buf.Push([]byte{byte(i)})
	}
	if got := buf.Len(); got != DefaultFrameCapacity {
		t.Errorf("Len() = %d, want %d", got, DefaultFrameCapacity)
	}
}
