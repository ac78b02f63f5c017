package document

import "strings"

// SplitText splits text into chunks of at most chunkSize characters by greedy
// word accumulation. Words are never split: a single word longer than
// chunkSize becomes its own oversized chunk. The final non-empty buffer is
// always emitted. Deterministic and side-effect free.
func SplitText(text string, chunkSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range words {
		// +1 accounts for the separating space.
		if currentLen+len(word)+1 <= chunkSize {
			current = append(current, word)
			currentLen += len(word) + 1
			continue
		}
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
		}
		current = []string{word}
		currentLen = len(word)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
