package chunking

import (
	"strings"
	"testing"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	chunks := NewSplitter(100, 20).Split("  a short document  ")
	if len(chunks) != 1 || chunks[0] != "a short document" {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := NewSplitter(100, 20).Split("   "); chunks != nil {
		t.Fatalf("chunks = %v, want nil", chunks)
	}
}

func TestSplitOverlapsWindows(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10)
	chunks := NewSplitter(40, 10).Split(text)

	if len(chunks) < 3 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-10:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Fatalf("chunk %d does not overlap previous: %q vs %q", i, prevTail, chunks[i][:10])
		}
	}
}

func TestSplitHandlesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("ação é motivação ", 50)
	chunks := NewSplitter(64, 16).Split(text)

	for i, chunk := range chunks {
		if strings.ContainsRune(chunk, '�') {
			t.Fatalf("chunk %d contains replacement rune: %q", i, chunk)
		}
	}
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "motivação") {
		t.Fatal("multibyte words were mangled")
	}
}

func TestSplitInvalidConfigFallsBack(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.chunkSize != defaultChunkSize || s.overlap != defaultOverlap {
		t.Fatalf("splitter = %+v", s)
	}
}
