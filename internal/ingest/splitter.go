package ingest

import (
	"strings"
)

const (
	// DefaultChunkSize is the target chunk length in bytes.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many bytes consecutive chunks share.
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried in order, preferring paragraph breaks over line
// breaks over word breaks before falling back to a hard character split.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveCharacterSplitter splits text into overlapping chunks, recursively
// descending through the separator list so chunks break at the most natural
// boundary that still fits the chunk size.
type RecursiveCharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewRecursiveCharacterSplitter creates a splitter with the given chunk size
// and overlap. Non-positive values fall back to the defaults.
func NewRecursiveCharacterSplitter(chunkSize, chunkOverlap int) *RecursiveCharacterSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &RecursiveCharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}
}

// Split breaks text into chunks of at most ChunkSize bytes, except when a
// single unbreakable run exceeds it. Whitespace-only chunks are dropped.
func (s *RecursiveCharacterSplitter) Split(text string) []string {
	separators := s.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return s.splitText(text, separators)
}

func (s *RecursiveCharacterSplitter) splitText(text string, separators []string) []string {
	// Pick the first separator that occurs in the text; "" always matches.
	separator := separators[len(separators)-1]
	var nextSeparators []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			nextSeparators = separators[i+1:]
			break
		}
	}

	splits := strings.Split(text, separator)

	var finalChunks []string
	var goodSplits []string
	for _, split := range splits {
		if len(split) < s.ChunkSize {
			goodSplits = append(goodSplits, split)
			continue
		}

		// Flush accumulated small splits before handling the oversized one.
		if len(goodSplits) > 0 {
			finalChunks = append(finalChunks, s.mergeSplits(goodSplits, separator)...)
			goodSplits = nil
		}

		if len(nextSeparators) == 0 {
			// No finer separator left; keep the oversized run whole.
			finalChunks = append(finalChunks, split)
		} else {
			finalChunks = append(finalChunks, s.splitText(split, nextSeparators)...)
		}
	}
	if len(goodSplits) > 0 {
		finalChunks = append(finalChunks, s.mergeSplits(goodSplits, separator)...)
	}

	return finalChunks
}

// mergeSplits greedily packs splits into chunks of at most ChunkSize bytes,
// carrying ChunkOverlap bytes of trailing context into the next chunk.
func (s *RecursiveCharacterSplitter) mergeSplits(splits []string, separator string) []string {
	sepLen := len(separator)

	var chunks []string
	var current []string
	total := 0

	for _, split := range splits {
		splitLen := len(split)
		if total+splitLen+sepLen*btoi(len(current) > 0) > s.ChunkSize {
			if len(current) > 0 {
				if chunk := joinSplits(current, separator); chunk != "" {
					chunks = append(chunks, chunk)
				}
				// Shrink the window down to the overlap budget.
				for total > s.ChunkOverlap ||
					(total+splitLen+sepLen*btoi(len(current) > 0) > s.ChunkSize && total > 0) {
					total -= len(current[0]) + sepLen*btoi(len(current) > 1)
					current = current[1:]
				}
			}
		}
		current = append(current, split)
		total += splitLen + sepLen*btoi(len(current) > 1)
	}

	if chunk := joinSplits(current, separator); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func joinSplits(splits []string, separator string) string {
	return strings.TrimSpace(strings.Join(splits, separator))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
