package audio

// MaxChunkBytes is the per-message size ceiling enforced by the
// transcription backend.
const MaxChunkBytes = 8 * 1024

// SplitChunks splits data into consecutive chunks of at most max bytes,
// preserving byte order within and across chunks. Chunks alias the input
// slice; callers that retain them past the caller's reuse of data must
// copy. A non-positive max falls back to MaxChunkBytes.
func SplitChunks(data []byte, max int) [][]byte {
	if max <= 0 {
		max = MaxChunkBytes
	}
	if len(data) == 0 {
		return nil
	}

	chunks := make([][]byte, 0, (len(data)+max-1)/max)
	for start := 0; start < len(data); start += max {
		end := start + max
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}
	return chunks
}
