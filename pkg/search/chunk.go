package search

// splitChunks divides text into chunks of at most size runes. The split
// is deterministic: identical input always yields identical chunks, so
// re-indexing unchanged content lands on identical record ids.
//
// Within each window the split prefers the last newline, then the last
// space, falling back to a hard cut; a break point in the first half of
// the window is ignored so pathological inputs cannot produce a long
// tail of tiny chunks. Empty text yields no chunks.
func splitChunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	for len(runes) > size {
		cut := size
		if i := lastIndexRune(runes[:size], '\n'); i >= size/2 {
			cut = i + 1
		} else if i := lastIndexRune(runes[:size], ' '); i >= size/2 {
			cut = i + 1
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
