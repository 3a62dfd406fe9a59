package audio

import (
	"bytes"
	"testing"
)

func TestSplitChunks_RespectsCeiling(t *testing.T) {
	data := make([]byte, MaxChunkBytes*2+100)
	for i := range data {
		data[i] = byte(i % 251)
	}

	chunks := SplitChunks(data, MaxChunkBytes)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > MaxChunkBytes {
			t.Errorf("chunk[%d] size %d exceeds ceiling %d", i, len(chunk), MaxChunkBytes)
		}
	}
	if got := len(chunks[2]); got != 100 {
		t.Errorf("tail chunk size = %d, want 100", got)
	}
}

func TestSplitChunks_PreservesByteOrder(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	var rejoined []byte
	for _, chunk := range SplitChunks(data, 7) {
		rejoined = append(rejoined, chunk...)
	}
	if !bytes.Equal(rejoined, data) {
		t.Errorf("rejoined = %q, want %q", rejoined, data)
	}
}

func TestSplitChunks_SmallInputSingleChunk(t *testing.T) {
	chunks := SplitChunks([]byte("tiny"), MaxChunkBytes)
	if len(chunks) != 1 || string(chunks[0]) != "tiny" {
		t.Errorf("chunks = %q, want one chunk %q", chunks, "tiny")
	}
}

func TestSplitChunks_Empty(t *testing.T) {
	if chunks := SplitChunks(nil, MaxChunkBytes); chunks != nil {
		t.Errorf("SplitChunks(nil) = %v, want nil", chunks)
	}
}
